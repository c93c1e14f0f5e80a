package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts-manager/config"
)

func TestNewS3ServiceRequiresBucket(t *testing.T) {
	_, err := NewS3Service(&config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestUploadBytes(t *testing.T) {
	var (
		mu          sync.Mutex
		gotMethod   string
		gotPath     string
		gotBody     []byte
		contentType string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewS3Service(&config.S3Config{
		AccessKey:  "test",
		SecretKey:  "test",
		Region:     "us-east-1",
		BucketName: "archive",
		ServiceUrl: server.URL,
		Prefix:     "exports/",
	})
	require.NoError(t, err)

	url, err := svc.UploadBytes([]byte("ID,Name\r\n"), "contacts_export_20240305_140709.csv", "text/csv")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/archive/exports/contacts_export_20240305_140709.csv", gotPath)
	assert.Equal(t, "ID,Name\r\n", string(gotBody))
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, server.URL+"/archive/exports/contacts_export_20240305_140709.csv", url)
}

func TestObjectURLPrefersBucketURL(t *testing.T) {
	svc := &S3Service{config: &config.S3Config{
		BucketName: "archive",
		BucketUrl:  "https://cdn.example.com/",
		Region:     "us-east-1",
	}}
	assert.Equal(t, "https://cdn.example.com/exports/a.csv", svc.objectURL("exports/a.csv"))

	svc.config.BucketUrl = ""
	assert.Equal(t, "https://archive.s3.us-east-1.amazonaws.com/exports/a.csv", svc.objectURL("exports/a.csv"))
}
