// Package store holds the catalog's persistence operations: categories,
// products, the price ledger, banners and admin users. Every write validates
// its input first and reports failures with the typed errors in errors.go.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"jewelstore/storage"
)

// Blobs is what the stores need from image storage.
type Blobs interface {
	Save(ctx context.Context, prefix string, up *storage.Upload) (string, error)
	Remove(ctx context.Context, key string) error
}

// ensureUnique fails with a UniquenessError when another row of model already
// holds value in column. excludeID skips the row being updated.
func ensureUnique(tx *gorm.DB, model interface{}, column, value string, excludeID uint, message string) error {
	query := tx.Model(model).Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s uniqueness: %w", column, err)
	}
	if count > 0 {
		return &UniquenessError{Field: column, Message: message}
	}
	return nil
}

// passThrough keeps the store's typed errors as they are and wraps anything else.
func passThrough(err error, msg string) error {
	var (
		verr *ValidationError
		uerr *UniquenessError
		cerr *ConflictError
	)
	switch {
	case errors.Is(err, ErrNotFound),
		errors.As(err, &verr),
		errors.As(err, &uerr),
		errors.As(err, &cerr):
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// searchAny matches rows where any of columns contains search, ignoring case.
func searchAny(search string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" {
			return db
		}
		escaper := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
		pattern := "%" + escaper.Replace(strings.ToLower(search)) + "%"

		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
			args[i] = pattern
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}

// stagedBlobs tracks objects written for a row that is not committed yet, so
// they can be removed when the row write fails.
type stagedBlobs struct {
	blobs Blobs
	keys  []string
}

func (b *stagedBlobs) save(ctx context.Context, prefix string, up *storage.Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	key, err := b.blobs.Save(ctx, prefix, up)
	if err != nil {
		return "", err
	}
	b.keys = append(b.keys, key)
	return key, nil
}

func (b *stagedBlobs) discard(ctx context.Context) {
	removeBlobs(ctx, b.blobs, b.keys...)
	b.keys = nil
}

// removeBlobs deletes objects best-effort; the rows no longer point at them.
func removeBlobs(ctx context.Context, blobs Blobs, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := blobs.Remove(ctx, key); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to remove stored image")
		}
	}
}

func checkImage(verr *ValidationError, field string, up *storage.Upload) {
	if up != nil && !up.IsImage() {
		verr.Add(field, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
}
