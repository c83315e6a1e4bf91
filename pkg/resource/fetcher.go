package resource

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(uri string) (body []byte, contentType string, err error)
}

// FileFetcher loads resources from the local file system, resolving
// relative URIs against a base directory. Network URIs are refused.
type FileFetcher struct {
	baseDir string
}

// NewFetcher creates a FileFetcher with the given base directory.
// Relative URIs passed to Fetch will be resolved against this base.
func NewFetcher(baseDir string) *FileFetcher {
	return &FileFetcher{baseDir: baseDir}
}

// Fetch reads the resource at the given URI. Plain paths and file: URLs
// are accepted.
func (f *FileFetcher) Fetch(uri string) ([]byte, string, error) {
	path, err := f.resolve(uri)
	if err != nil {
		return nil, "", err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("unable to read %s: %w", uri, err)
	}
	return body, mime.TypeByExtension(filepath.Ext(path)), nil
}

func (f *FileFetcher) resolve(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("bad uri %q: %w", uri, err)
	}
	var path string
	switch u.Scheme {
	case "":
		path = u.Path
	case "file":
		path = u.Path
		if path == "" {
			path = u.Opaque
		}
	default:
		return "", fmt.Errorf("cannot fetch non-file URI: %s", uri)
	}
	if path == "" {
		return "", fmt.Errorf("empty path in URI %q", uri)
	}
	path = filepath.FromSlash(path)
	if !filepath.IsAbs(path) && f.baseDir != "" {
		path = filepath.Join(f.baseDir, path)
	}
	return path, nil
}

// FetchCSS fetches a stylesheet URI through f and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func FetchCSS(f Fetcher, uri string) (string, error) {
	body, contentType, err := f.Fetch(uri)
	if err != nil {
		return "", err
	}
	// Accept text/css, text/plain, or any text/* content type
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}
