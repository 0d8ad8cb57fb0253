package media_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskera/backend/internal/config"
	"github.com/taskera/backend/internal/infrastructure/logger"
	"github.com/taskera/backend/internal/infrastructure/media"
)

func newClient(endpoint string) *media.Client {
	return media.NewClient(config.MediaConfig{
		Endpoint:     endpoint,
		UploadPreset: "evidence_upload",
	}, logger.NewNop())
}

func TestClient_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "evidence_upload", r.FormValue("upload_preset"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "proof.png", header.Filename)

		body, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://media.example/v1/proof.png"}`))
	}))
	defer server.Close()

	url, err := newClient(server.URL).Upload(context.Background(), "proof.png", strings.NewReader("png bytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://media.example/v1/proof.png", url)
}

func TestClient_Upload_FallsBackToPlainURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"url":"http://media.example/v1/proof.png"}`))
	}))
	defer server.Close()

	url, err := newClient(server.URL).Upload(context.Background(), "proof.png", strings.NewReader("x"))

	require.NoError(t, err)
	assert.Equal(t, "http://media.example/v1/proof.png", url)
}

func TestClient_Upload_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "preset not allowed", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newClient(server.URL).Upload(context.Background(), "proof.png", strings.NewReader("x"))

	assert.ErrorIs(t, err, media.ErrUploadRejected)
}

func TestClient_Upload_NoURLInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).Upload(context.Background(), "proof.png", strings.NewReader("x"))

	assert.ErrorIs(t, err, media.ErrNoPublicURL)
}

func TestClient_Upload_HostDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newClient(server.URL).Upload(context.Background(), "proof.png", strings.NewReader("x"))

	assert.Error(t, err)
}
