package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"contacts-manager/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "contacts_data.json", cfg.ContactsFile)
	assert.Equal(t, "categories.json", cfg.CategoriesFile)
	assert.Equal(t, "contacts.vcf", cfg.VCFFile)
	assert.Equal(t, 10*time.Second, cfg.LockTimeout)
	assert.Equal(t, []string{"Family", "Friends", "Work", "Medical", "Services", "Church", "Business", "Emergency"}, cfg.DefaultCategories)
	assert.False(t, cfg.S3Config.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONTACTS_DATA_DIR", "/srv/contacts")
	t.Setenv("CONTACTS_LOCK_TIMEOUT", "250ms")
	t.Setenv("CONTACTS_DEFAULT_CATEGORIES", "Home,Office")
	t.Setenv("S3_BUCKET_NAME", "exports")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, []string{"Home", "Office"}, cfg.DefaultCategories)
	assert.Equal(t, filepath.Join("/srv/contacts", "contacts_data.json"), cfg.ContactsPath())
	assert.Equal(t, filepath.Join("/srv/contacts", "categories.json"), cfg.CategoriesPath())
	assert.True(t, cfg.S3Config.Enabled())
	assert.Equal(t, "us-east-1", cfg.S3Config.Region)
}

func TestAbsolutePathsAreKept(t *testing.T) {
	cfg := config.NewConfig()
	cfg.DataDir = "/srv/contacts"
	cfg.VCFFile = "/imports/phone.vcf"

	assert.Equal(t, "/imports/phone.vcf", cfg.VCFPath())
	assert.Equal(t, filepath.Join("/srv/contacts", "activity.db"), cfg.ActivityPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "same file", mutate: func(c *config.Config) { c.CategoriesFile = c.ContactsFile }, wantErr: true},
		{name: "missing contacts file", mutate: func(c *config.Config) { c.ContactsFile = "" }, wantErr: true},
		{name: "zero lock timeout", mutate: func(c *config.Config) { c.LockTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
