// Package imagehost uploads images to a Cloudinary-compatible HTTP API.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Neeraj-1996/mlmbackend/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// ErrNoURL is returned when the host accepted the upload but returned no URL
var ErrNoURL = errors.New("image host returned no url")

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client uploads files with resty
type Client struct {
	http *resty.Client
	cfg  config.ImageHostConfig
}

// New builds a Client from configuration
func New(cfg config.ImageHostConfig) *Client {
	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: rc, cfg: cfg}
}

// Upload sends the file as multipart form data and returns its public URL
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	var result uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, file).
		SetFormData(map[string]string{
			"upload_preset": c.cfg.UploadPreset,
			"api_key":       c.cfg.APIKey,
			"folder":        c.cfg.Folder,
		}).
		SetResult(&result).
		SetError(&result).
		Post(c.cfg.UploadURL)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		logrus.WithFields(logrus.Fields{
			"file":   filename,
			"status": resp.StatusCode(),
		}).Warn("Image upload rejected")
		return "", fmt.Errorf("upload %s: %s", filename, msg)
	}
	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if url == "" {
		return "", ErrNoURL
	}
	return url, nil
}
