package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadImage posts the file as multipart field "image" and returns the URL
// the server stored it under. Size and type validation happens before this
// call (internal/upload); the server still enforces its own limits.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/upload/image", &buf, mw.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	return resp.ImageURL, nil
}
