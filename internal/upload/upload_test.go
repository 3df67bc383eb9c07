package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/ripple/internal/api"
)

// Minimal valid PNG header; enough for content sniffing.
var pngHead = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(100, pngHead))
	assert.ErrorIs(t, Validate(6<<20, pngHead), ErrTooLarge)
	assert.ErrorIs(t, Validate(100, []byte("plain text, not an image")), ErrNotImage)

	// Exactly at the cap passes.
	assert.NoError(t, Validate(MaxSize, pngHead))
}

func TestSendFileRejectsBeforeNetwork(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/upload/image", func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("rejected file must never reach the server")
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	client := api.New(srv.URL, time.Second, 100)

	dir := t.TempDir()

	// 6MB file
	big := filepath.Join(dir, "big.png")
	require.NoError(t, os.WriteFile(big, append(pngHead, make([]byte, 6<<20)...), 0644))
	_, err := SendFile(context.Background(), client, big)
	assert.ErrorIs(t, err, ErrTooLarge)

	// Non-image file
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("hello world, definitely text"), 0644))
	_, err = SendFile(context.Background(), client, text)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestSendFileUploadsValidImage(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/upload/image", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseMultipartForm(10<<20))
		_, hdr, err := req.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "ok.png", hdr.Filename)
		w.Write([]byte(`{"imageUrl":"/uploads/ok.png"}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	client := api.New(srv.URL, time.Second, 100)

	path := filepath.Join(t.TempDir(), "ok.png")
	require.NoError(t, os.WriteFile(path, pngHead, 0644))

	url, err := SendFile(context.Background(), client, path)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/ok.png", url)
}
