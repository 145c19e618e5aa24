package finder

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/mohammed-shakir/resource-radius/internal/catalog"
)

const maxSourceBytes = 16 << 20

// Source fetches the raw text of a category file.
type Source interface {
	Fetch(ctx context.Context, cat catalog.Category) (string, error)
}

// RecordLoadError reports a category whose file could not be fetched.
type RecordLoadError struct {
	Category string
	Err      error
}

func (e *RecordLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Category, e.Err)
}

func (e *RecordLoadError) Unwrap() error { return e.Err }

// HTTPSource fetches files relative to a base URL, such as the proxy's
// /locations route.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse data url: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: u, client: client}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, cat catalog.Category) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base.JoinPath(cat.File).String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", cat.File, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("get %s: status %d", cat.File, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", cat.File, err)
	}
	return string(b), nil
}

// DirSource reads files from a directory tree.
type DirSource struct {
	FS fs.FS
}

func (s DirSource) Fetch(ctx context.Context, cat catalog.Category) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := fs.ReadFile(s.FS, cat.File)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", cat.File, err)
	}
	return string(b), nil
}
