// Package imagestore uploads property images to the external image
// hosting service and returns their public URLs.
package imagestore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client uploads images via the store's unsigned-upload endpoint.
type Client struct {
	httpClient *http.Client
	uploadURL  string
	preset     string
}

// NewClient creates an image store client. uploadURL is the full
// unsigned-upload endpoint for the configured account.
func NewClient(uploadURL, preset string) (*Client, error) {
	if uploadURL == "" {
		return nil, fmt.Errorf("image store upload URL is required")
	}
	return &Client{
		httpClient: &http.Client{},
		uploadURL:  uploadURL,
		preset:     preset,
	}, nil
}

// uploadResponse is the store's upload result envelope.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload re-encodes the image bytes as a data URI, posts them to the
// store, and returns the issued public URL. Cancelling the context
// aborts an in-flight upload.
func (c *Client) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))

	form := url.Values{
		"file":          {dataURI},
		"upload_preset": {c.preset},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending upload: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = fmt.Errorf("%w (also failed to close body: %v)", err, closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var result uploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error.Message != "" {
			return "", fmt.Errorf("image store: %s", result.Error.Message)
		}
		return "", fmt.Errorf("image store: unexpected status %d", resp.StatusCode)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("image store: no URL in response")
	}

	return result.SecureURL, nil
}
