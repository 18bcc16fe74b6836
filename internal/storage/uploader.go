// Package storage provides the image upload collaborator: a file goes in, a
// publicly servable URL comes out. The rest of the application only depends
// on the Uploader interface.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Uploader stores an uploaded file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// allowedImageExts are the upload extensions accepted for post photos.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// AllowedImage reports whether the filename carries an accepted image
// extension.
func AllowedImage(filename string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(filename))]
}

// objectName builds a collision-resistant storage key preserving the
// original extension.
func objectName(filename string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// math-free fallback: timestamp alone still avoids most collisions
		return fmt.Sprintf("%d%s", time.Now().UnixNano(), strings.ToLower(filepath.Ext(filename)))
	}
	return fmt.Sprintf("%d-%s%s", time.Now().Unix(), hex.EncodeToString(buf), strings.ToLower(filepath.Ext(filename)))
}
