package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct {
	body []byte
	err  error
}

func (f staticFetcher) Fetch(context.Context, string) ([]byte, error) {
	return f.body, f.err
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(width, height, color.White), imaging.JPEG))
	return buf.Bytes()
}

func TestProfileImages_SaveCropped(t *testing.T) {
	dir := t.TempDir()
	p := NewProfileImages(dir, "http://localhost:8080/", staticFetcher{body: encodeJPEG(t, 40, 30)})

	url, err := p.SaveCropped(context.Background(), 7, "http://example.com/me.jpg", image.Rect(5, 5, 25, 15))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/img/7.jpg", url)

	saved, err := imaging.Open(filepath.Join(dir, "7.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 20, saved.Bounds().Dx())
	assert.Equal(t, 10, saved.Bounds().Dy())
}

func TestProfileImages_Rejects(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	p := NewProfileImages(dir, "", staticFetcher{body: encodeJPEG(t, 40, 30)})
	_, err := p.SaveCropped(ctx, 1, "http://example.com/me.jpg", image.Rect(0, 0, 41, 30))
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = p.SaveCropped(ctx, 1, "http://example.com/me.jpg", image.Rect(0, 0, 40, 30))
	assert.NoError(t, err, "the whole image is a valid box")

	p = NewProfileImages(dir, "", staticFetcher{body: []byte("not an image")})
	_, err = p.SaveCropped(ctx, 1, "http://example.com/me.jpg", image.Rect(0, 0, 1, 1))
	assert.ErrorIs(t, err, ErrDecode)

	p = NewProfileImages(dir, "", staticFetcher{err: ErrFetch})
	_, err = p.SaveCropped(ctx, 1, "http://example.com/me.jpg", image.Rect(0, 0, 1, 1))
	assert.ErrorIs(t, err, ErrFetch)
}

func TestHTTPFetcher(t *testing.T) {
	body := encodeJPEG(t, 4, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	defer server.Close()

	f := NewHTTPFetcher(server.Client())
	got, err := f.Fetch(context.Background(), server.URL+"/me.jpg")
	require.NoError(t, err)
	assert.Equal(t, body, got)

	_, err = f.Fetch(context.Background(), server.URL+"/missing.jpg")
	assert.ErrorIs(t, err, ErrFetch)
}
