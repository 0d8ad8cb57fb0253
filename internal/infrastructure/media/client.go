package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/taskera/backend/internal/config"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/infrastructure/logger"
)

var (
	ErrUploadRejected = errors.New("media: upload rejected by host")
	ErrNoPublicURL    = errors.New("media: response carried no public url")
)

// Client pushes evidence images to the media host. The host's contract is a
// multipart POST with a "file" part and an "upload_preset" field, answered
// with JSON carrying the public URL under "secure_url" (or "url").
type Client struct {
	endpoint string
	preset   string
	http     *http.Client
	log      *logger.Logger
}

func NewClient(cfg config.MediaConfig, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		preset:   cfg.UploadPreset,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

var _ ports.MediaUploader = (*Client)(nil)

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

func (c *Client) Upload(ctx context.Context, filename string, data io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("media: building request: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", fmt.Errorf("media: reading file: %w", err)
	}
	if c.preset != "" {
		if err := writer.WriteField("upload_preset", c.preset); err != nil {
			return "", fmt.Errorf("media: building request: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("media: building request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("media: building request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Errorw("media_upload_request_failed", "error", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warnw("media_upload_rejected", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrUploadRejected, resp.StatusCode)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("media: decoding response: %w", err)
	}

	url := parsed.SecureURL
	if url == "" {
		url = parsed.URL
	}
	if url == "" {
		return "", ErrNoPublicURL
	}

	c.log.Infow("media_upload_ok", "filename", filename)
	return url, nil
}
