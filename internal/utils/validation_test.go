package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "contacts-manager/internal/errors"
)

type sample struct {
	Name string `validate:"required,max=5"`
	IDs  []int  `validate:"required,min=1,dive,gt=0"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr string
	}{
		{"valid", sample{Name: "ok", IDs: []int{1}}, ""},
		{"missing name", sample{IDs: []int{1}}, "name is required"},
		{"long name", sample{Name: "toolong", IDs: []int{1}}, "name must have at most 5"},
		{"no ids", sample{Name: "ok", IDs: []int{}}, "ids must have at least 1"},
		{"zero id", sample{Name: "ok", IDs: []int{0}}, "ids[0] must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
			assert.Equal(t, tt.wantErr, apperrors.MessageOf(err))
		})
	}
}
