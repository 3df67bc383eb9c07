// Package upload validates an image before it ever leaves the machine:
// size and sniffed content type are checked locally, and only a passing file
// is sent to the upload endpoint.
package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vedran77/ripple/internal/api"
)

// MaxSize is the client-side upload cap.
const MaxSize = 5 << 20

var (
	ErrTooLarge = errors.New("file size exceeds 5MB limit")
	ErrNotImage = errors.New("not an image file")
)

// Validate checks the declared size and the sniffed content of the first
// bytes. head may be shorter than 512 bytes for small files.
func Validate(size int64, head []byte) error {
	if size > MaxSize {
		return ErrTooLarge
	}
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return ErrNotImage
	}
	return nil
}

// SendFile validates the file at path and uploads it, returning the URL the
// server stored it under. Validation failures never issue a request.
func SendFile(ctx context.Context, client *api.Client, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if err := Validate(info.Size(), head[:n]); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return client.UploadImage(ctx, filepath.Base(path), f)
}
