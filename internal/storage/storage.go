// Package storage keeps uploaded files either on local disk or in an S3 bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type Store interface {
	// Put writes the object and returns the URL clients should use to fetch it.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// LocalStore writes under Dir; files are served by the router under URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" {
		return "", fmt.Errorf("empty object key")
	}

	dst := filepath.Join(s.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", clean, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", clean, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return s.URLPrefix + "/" + clean, nil
}
