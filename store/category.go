package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"jewelstore/models"
)

const (
	categoryNameMax = 200
	categorySlugMax = 200
)

type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

type CategoryInput struct {
	Name string
	// Slug is derived from Name when empty.
	Slug string
}

type CategoryUpdate struct {
	Name *string
}

type CategoryFilter struct {
	Search string
	PageRequest
}

func (s *CategoryStore) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	var verr ValidationError
	checkText(&verr, "name", in.Name, categoryNameMax)

	slug := strings.TrimSpace(in.Slug)
	switch {
	case slug != "" && models.Slugify(slug) != slug:
		verr.Add("slug", "Enter a valid slug consisting of lowercase letters, numbers or hyphens.")
	case slug == "" && len(verr.Fields) == 0:
		slug = models.Slugify(in.Name)
		if slug == "" {
			verr.Add("name", "Name must contain at least one letter or digit.")
		}
	}
	if len(slug) > categorySlugMax {
		verr.Add("slug", msgMaxLength(categorySlugMax))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	category := models.Category{Name: in.Name, Slug: slug}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Category{}, "name", in.Name, 0, "A category with this name already exists."); err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.Category{}, "slug", slug, 0, "A category with this slug already exists."); err != nil {
			return err
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, categoryWriteError(err)
	}
	return &category, nil
}

// List returns categories ordered by name. Search matches name or slug.
func (s *CategoryStore) List(ctx context.Context, f CategoryFilter) (*Page[models.Category], error) {
	query := s.db.WithContext(ctx).Model(&models.Category{}).Scopes(searchAny(f.Search, "name", "slug"))
	page, err := paginate[models.Category](query.Order("name ASC"), f.PageRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return page, nil
}

func (s *CategoryStore) Get(ctx context.Context, slug string) (*models.Category, error) {
	return findCategory(s.db.WithContext(ctx), slug)
}

func findCategory(db *gorm.DB, slug string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

// Update applies the given fields. The slug never changes, even on rename.
func (s *CategoryStore) Update(ctx context.Context, slug string, in CategoryUpdate) (*models.Category, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
		var verr ValidationError
		checkText(&verr, "name", name, categoryNameMax)
		if err := verr.OrNil(); err != nil {
			return nil, err
		}
	}

	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findCategory(tx, slug)
		if err != nil {
			return err
		}
		category = found
		if in.Name == nil {
			return nil
		}
		if err := ensureUnique(tx, &models.Category{}, "name", *in.Name, category.ID, "A category with this name already exists."); err != nil {
			return err
		}
		category.Name = *in.Name
		return tx.Save(category).Error
	})
	if err != nil {
		return nil, categoryWriteError(err)
	}
	return category, nil
}

// Delete removes the category unless products still reference it.
func (s *CategoryStore) Delete(ctx context.Context, slug string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := findCategory(tx, slug)
		if err != nil {
			return err
		}

		var products int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&products).Error; err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if products > 0 {
			return &ConflictError{Message: fmt.Sprintf(
				"Cannot delete category %q because %d product(s) still reference it.", category.Name, products)}
		}

		if err := tx.Delete(&models.Category{}, category.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return &ConflictError{Message: fmt.Sprintf("Cannot delete category %q because products still reference it.", category.Name)}
			}
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

func categoryWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &UniquenessError{Field: "name", Message: "A category with this name already exists."}
	}
	return passThrough(err, "failed to save category")
}
