package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jewelstore/models"
	"jewelstore/storage"
)

const (
	productIDMax   = 50
	productNameMax = 300
	productSizeMax = 100

	// FeaturedLimit is how many products MostRecent returns by default.
	FeaturedLimit = 6

	productImagePrefix  = "products"
	msgDuplicateProduct = "A product with this product_id already exists."
)

const defaultProductOrdering = "created_at DESC, id DESC"

// productOrderings whitelists the ordering values accepted by List.
var productOrderings = map[string]string{
	"created_at":    "created_at ASC, id ASC",
	"-created_at":   defaultProductOrdering,
	"name":          "name ASC, id ASC",
	"-name":         "name DESC, id DESC",
	"product_name":  "name ASC, id ASC",
	"-product_name": "name DESC, id DESC",
}

type ProductStore struct {
	db    *gorm.DB
	blobs Blobs
}

func NewProductStore(db *gorm.DB, blobs Blobs) *ProductStore {
	return &ProductStore{db: db, blobs: blobs}
}

type ProductInput struct {
	ProductID  string
	Name       string
	CategoryID uint
	Size       *string
	Image1     *storage.Upload
	Image2     *storage.Upload
}

// ProductUpdate holds the fields to change; nil means unchanged. An empty
// Size clears it, ClearImage2 drops the secondary image.
type ProductUpdate struct {
	ProductID   *string
	Name        *string
	CategoryID  *uint
	Size        *string
	Image1      *storage.Upload
	Image2      *storage.Upload
	ClearImage2 bool
}

type ProductFilter struct {
	CategoryID *uint
	Size       *string
	Search     string
	// Ordering is one of created_at, -created_at, name, -name. Unknown
	// values fall back to newest first.
	Ordering string
	PageRequest
}

func withCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category")
}

func normalizeSize(verr *ValidationError, size *string) *string {
	if size == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*size)
	if trimmed == "" {
		return nil
	}
	if len([]rune(trimmed)) > productSizeMax {
		verr.Add("size", msgMaxLength(productSizeMax))
	}
	return &trimmed
}

func (s *ProductStore) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Name = strings.TrimSpace(in.Name)

	var verr ValidationError
	checkText(&verr, "product_id", in.ProductID, productIDMax)
	checkText(&verr, "name", in.Name, productNameMax)
	if in.CategoryID == 0 {
		verr.Add("category", msgRequired)
	}
	size := normalizeSize(&verr, in.Size)
	if in.Image1 == nil {
		verr.Add("image1", "No file was submitted.")
	}
	checkImage(&verr, "image1", in.Image1)
	checkImage(&verr, "image2", in.Image2)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := checkProductRefs(db, in.ProductID, 0, &in.CategoryID); err != nil {
		return nil, err
	}

	staged := &stagedBlobs{blobs: s.blobs}
	image1, err := staged.save(ctx, productImagePrefix, in.Image1)
	if err != nil {
		return nil, fmt.Errorf("failed to store image1: %w", err)
	}
	image2, err := staged.save(ctx, productImagePrefix, in.Image2)
	if err != nil {
		staged.discard(ctx)
		return nil, fmt.Errorf("failed to store image2: %w", err)
	}

	product := models.Product{
		ProductID:  in.ProductID,
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Size:       size,
		Image1:     image1,
	}
	if image2 != "" {
		product.Image2 = &image2
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := checkProductRefs(tx, in.ProductID, 0, &in.CategoryID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&product).Error
	})
	if err != nil {
		staged.discard(ctx)
		return nil, productWriteError(err)
	}
	return s.Get(ctx, product.ID)
}

// checkProductRefs verifies product_id is free (ignoring excludeID) and that
// the category, when given, exists.
func checkProductRefs(tx *gorm.DB, productID string, excludeID uint, categoryID *uint) error {
	if productID != "" {
		if err := ensureUnique(tx, &models.Product{}, "product_id", productID, excludeID, msgDuplicateProduct); err != nil {
			return err
		}
	}
	if categoryID != nil {
		var count int64
		if err := tx.Model(&models.Category{}).Where("id = ?", *categoryID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if count == 0 {
			return &ValidationError{Fields: map[string][]string{
				"category": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *categoryID)},
			}}
		}
	}
	return nil
}

func (s *ProductStore) Get(ctx context.Context, id uint) (*models.Product, error) {
	return findProduct(s.db.WithContext(ctx).Scopes(withCategory), id)
}

func findProduct(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (s *ProductStore) List(ctx context.Context, f ProductFilter) (*Page[models.Product], error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.Size != nil {
		query = query.Where("size = ?", *f.Size)
	}
	ordering, ok := productOrderings[strings.TrimSpace(f.Ordering)]
	if !ok {
		ordering = defaultProductOrdering
	}
	query = query.Scopes(searchAny(f.Search, "name", "product_id")).Order(ordering)

	page, err := paginate[models.Product](query, f.PageRequest, withCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return page, nil
}

// ByCategory returns every product whose category has the given slug, newest
// first. An unknown slug yields an empty slice.
func (s *ProductStore) ByCategory(ctx context.Context, slug string) ([]models.Product, error) {
	products := make([]models.Product, 0)
	err := s.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("categories.slug = ?", slug).
		Order("products.created_at DESC, products.id DESC").
		Preload("Category").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return products, nil
}

// MostRecent returns the newest products across all categories.
func (s *ProductStore) MostRecent(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = FeaturedLimit
	}
	products := make([]models.Product, 0, limit)
	err := s.db.WithContext(ctx).
		Order(defaultProductOrdering).
		Limit(limit).
		Preload("Category").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list latest products: %w", err)
	}
	return products, nil
}

func (s *ProductStore) Update(ctx context.Context, id uint, in ProductUpdate) (*models.Product, error) {
	var verr ValidationError
	if in.ProductID != nil {
		v := strings.TrimSpace(*in.ProductID)
		in.ProductID = &v
		checkText(&verr, "product_id", v, productIDMax)
	}
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
		checkText(&verr, "name", v, productNameMax)
	}
	if in.CategoryID != nil && *in.CategoryID == 0 {
		verr.Add("category", msgRequired)
	}
	size := normalizeSize(&verr, in.Size)
	checkImage(&verr, "image1", in.Image1)
	checkImage(&verr, "image2", in.Image2)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if _, err := findProduct(db, id); err != nil {
		return nil, err
	}
	productID := ""
	if in.ProductID != nil {
		productID = *in.ProductID
	}
	if err := checkProductRefs(db, productID, id, in.CategoryID); err != nil {
		return nil, err
	}

	staged := &stagedBlobs{blobs: s.blobs}
	image1, err := staged.save(ctx, productImagePrefix, in.Image1)
	if err != nil {
		return nil, fmt.Errorf("failed to store image1: %w", err)
	}
	image2, err := staged.save(ctx, productImagePrefix, in.Image2)
	if err != nil {
		staged.discard(ctx)
		return nil, fmt.Errorf("failed to store image2: %w", err)
	}

	var replaced []string
	err = db.Transaction(func(tx *gorm.DB) error {
		product, err := findProduct(tx, id)
		if err != nil {
			return err
		}
		if err := checkProductRefs(tx, productID, id, in.CategoryID); err != nil {
			return err
		}

		if in.ProductID != nil {
			product.ProductID = *in.ProductID
		}
		if in.Name != nil {
			product.Name = *in.Name
		}
		if in.CategoryID != nil {
			product.CategoryID = *in.CategoryID
		}
		if in.Size != nil {
			product.Size = size
		}
		if image1 != "" {
			replaced = append(replaced, product.Image1)
			product.Image1 = image1
		}
		switch {
		case image2 != "":
			if product.Image2 != nil {
				replaced = append(replaced, *product.Image2)
			}
			product.Image2 = &image2
		case in.ClearImage2 && product.Image2 != nil:
			replaced = append(replaced, *product.Image2)
			product.Image2 = nil
		}
		return tx.Omit(clause.Associations).Save(product).Error
	})
	if err != nil {
		staged.discard(ctx)
		return nil, productWriteError(err)
	}

	removeBlobs(ctx, s.blobs, replaced...)
	return s.Get(ctx, id)
}

func (s *ProductStore) Delete(ctx context.Context, id uint) error {
	var product *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findProduct(tx, id)
		if err != nil {
			return err
		}
		product = found
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return passThrough(err, "failed to delete product")
	}

	keys := []string{product.Image1}
	if product.Image2 != nil {
		keys = append(keys, *product.Image2)
	}
	removeBlobs(ctx, s.blobs, keys...)
	return nil
}

func productWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &UniquenessError{Field: "product_id", Message: msgDuplicateProduct}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &ValidationError{Fields: map[string][]string{"category": {"Invalid category."}}}
	}
	return passThrough(err, "failed to save product")
}
