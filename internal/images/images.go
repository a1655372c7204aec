package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	fetchTimeout = 5 * time.Second
	maxImageSize = 10 << 20
)

var (
	ErrFetch       = errors.New("images: could not fetch image")
	ErrDecode      = errors.New("images: not a decodable image")
	ErrOutOfBounds = errors.New("images: crop box is outside the image")
)

// Fetcher downloads the raw bytes behind an image url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches images with a plain GET.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "image/jpeg")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return body, nil
}

// ProfileImages crops remote images and stores them as <dir>/<u_id>.jpg, served under
// <baseURL>/img.
type ProfileImages struct {
	dir     string
	baseURL string
	fetcher Fetcher
}

func NewProfileImages(dir, baseURL string, fetcher Fetcher) *ProfileImages {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil)
	}
	return &ProfileImages{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
	}
}

// SaveCropped fetches url, crops it to box (zero-based, max exclusive) and writes it for
// userID. It returns the public url of the stored image.
func (p *ProfileImages) SaveCropped(ctx context.Context, userID int, url string, box image.Rectangle) (string, error) {
	raw, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	box = box.Add(bounds.Min)
	if !box.In(bounds) {
		return "", fmt.Errorf("%w: box %v, image %v", ErrOutOfBounds, box, bounds)
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	name := strconv.Itoa(userID) + ".jpg"
	if err := imaging.Save(imaging.Crop(img, box), filepath.Join(p.dir, name)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return p.baseURL + "/img/" + name, nil
}
