// Package storage keeps uploaded catalog images outside the database. Rows
// only hold the object key; URLs are derived from the configured base URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when no object exists under a key.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore is the persistence port for binary objects.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

type Object struct {
	Key         string
	Data        []byte
	ContentType string
}

// Upload is an image received from a client, not yet stored.
type Upload struct {
	Filename string
	Data     []byte
}

// ContentType sniffs the upload's bytes; the client supplied header is ignored.
func (u *Upload) ContentType() string {
	return mimetype.Detect(u.Data).String()
}

// IsImage reports whether the upload's content is an image.
func (u *Upload) IsImage() bool {
	if u == nil || len(u.Data) == 0 {
		return false
	}
	return strings.HasPrefix(mimetype.Detect(u.Data).String(), "image/")
}

// Media turns uploads into stored objects and keys into public URLs.
type Media struct {
	store   BlobStore
	baseURL string
}

func NewMedia(store BlobStore, baseURL string) *Media {
	return &Media{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

// Save stores the upload under prefix and returns its key.
func (m *Media) Save(ctx context.Context, prefix string, up *Upload) (string, error) {
	key := path.Join(prefix, uuid.New().String()+"-"+sanitizeFilename(up.Filename))
	if err := m.store.Put(ctx, key, up.Data, up.ContentType()); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", key, err)
	}
	return key, nil
}

// Remove deletes a stored object. Missing objects are not an error.
func (m *Media) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := m.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrObjectNotFound) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (m *Media) Open(ctx context.Context, key string) (*Object, error) {
	if !validKey(key) {
		return nil, ErrObjectNotFound
	}
	return m.store.Get(ctx, key)
}

// URL returns the public address of key, or "" for an empty key.
func (m *Media) URL(key string) string {
	if key == "" {
		return ""
	}
	return m.baseURL + "/" + key
}

func sanitizeFilename(filename string) string {
	clean := filepath.Base(filepath.Clean(filename))
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	clean = strings.ReplaceAll(clean, " ", "_")
	if clean == "." || clean == ".." || clean == "" {
		return "unnamed"
	}
	return clean
}

// validKey rejects keys that could escape the storage root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
