package openaifiles

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Upload(t *testing.T) {
	var purpose, name, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		purpose = r.FormValue("purpose")

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		name = header.Filename
		data, _ := io.ReadAll(f)
		body = string(data)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"file-123","object":"file","bytes":8,"purpose":"assistants"}`)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "exported_file_x.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	store := New(Config{APIKey: "key", BaseURL: server.URL, Logger: testutil.NewFakeLogger()})
	id, err := store.Upload(context.Background(), path, output.PurposeAssistants)
	require.NoError(t, err)

	assert.Equal(t, "file-123", id)
	assert.Equal(t, "assistants", purpose)
	assert.Equal(t, "exported_file_x.pdf", name)
	assert.Equal(t, "%PDF-1.4", body)
}

func TestStore_UploadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key"}}`)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := New(Config{APIKey: "bad", BaseURL: server.URL}).Upload(context.Background(), path, output.PurposeAssistants)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestStore_UploadMissingFile(t *testing.T) {
	_, err := New(Config{APIKey: "key", BaseURL: "http://127.0.0.1:0"}).
		Upload(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), output.PurposeAssistants)

	assert.Error(t, err)
}
