// Package media stores synthesized images on local disk and hands back
// URL references the HTTP layer serves under the media base path.
package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists raw image bytes and returns a reference for them.
type Store interface {
	Save(ctx context.Context, data []byte, mimeType string) (string, error)
}

// FileStore writes images into a directory, naming files by content hash
// so repeated synthesis of identical bytes dedupes naturally.
type FileStore struct {
	dir     string
	baseURL string
}

// NewFileStore creates the media directory if needed.
func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory the store writes into.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes the image and returns its URL reference.
func (s *FileStore) Save(_ context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("media: empty image data")
	}
	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:8]) + extensionFor(mimeType)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("media: write %s: %w", path, err)
	}
	return s.baseURL + "/" + name, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
