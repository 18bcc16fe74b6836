package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes uploads to a directory on disk and returns URLs under
// a configured base path. Used for local development and as the default when
// no object store is configured.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader creates a LocalUploader rooted at dir. Uploaded files are
// addressed as baseURL/<name>.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores the file on disk and returns its public URL
func (u *LocalUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	name := objectName(filename)

	f, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return u.baseURL + "/" + name, nil
}
