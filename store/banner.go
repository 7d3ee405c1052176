package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"jewelstore/models"
	"jewelstore/storage"
)

const (
	bannerNameMax     = 200
	bannerImagePrefix = "banners"
	bannerOrdering    = "created_at DESC, id DESC"
)

type BannerStore struct {
	db    *gorm.DB
	blobs Blobs
}

func NewBannerStore(db *gorm.DB, blobs Blobs) *BannerStore {
	return &BannerStore{db: db, blobs: blobs}
}

type BannerInput struct {
	Name  string
	Image *storage.Upload
	// Active defaults to true when nil.
	Active *bool
}

type BannerUpdate struct {
	Name   *string
	Image  *storage.Upload
	Active *bool
}

type BannerFilter struct {
	Active *bool
	Search string
	PageRequest
}

func (s *BannerStore) Create(ctx context.Context, in BannerInput) (*models.Banner, error) {
	in.Name = strings.TrimSpace(in.Name)

	var verr ValidationError
	checkText(&verr, "name", in.Name, bannerNameMax)
	if in.Image == nil {
		verr.Add("image", "No file was submitted.")
	}
	checkImage(&verr, "image", in.Image)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	staged := &stagedBlobs{blobs: s.blobs}
	key, err := staged.save(ctx, bannerImagePrefix, in.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to store banner image: %w", err)
	}

	banner := models.Banner{Name: in.Name, Image: key, Active: true}
	if in.Active != nil {
		banner.Active = *in.Active
	}
	if err := s.db.WithContext(ctx).Create(&banner).Error; err != nil {
		staged.discard(ctx)
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	return &banner, nil
}

func (s *BannerStore) Get(ctx context.Context, id uint) (*models.Banner, error) {
	return findBanner(s.db.WithContext(ctx), id)
}

func findBanner(db *gorm.DB, id uint) (*models.Banner, error) {
	var banner models.Banner
	if err := db.First(&banner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find banner: %w", err)
	}
	return &banner, nil
}

// List returns banners newest first, optionally narrowed by active flag and
// a name search.
func (s *BannerStore) List(ctx context.Context, f BannerFilter) (*Page[models.Banner], error) {
	query := s.db.WithContext(ctx).Model(&models.Banner{})
	if f.Active != nil {
		query = query.Where("active = ?", *f.Active)
	}
	query = query.Scopes(searchAny(f.Search, "name")).Order(bannerOrdering)

	page, err := paginate[models.Banner](query, f.PageRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return page, nil
}

// ActiveOnly returns every active banner, newest first.
func (s *BannerStore) ActiveOnly(ctx context.Context) ([]models.Banner, error) {
	banners := make([]models.Banner, 0)
	err := s.db.WithContext(ctx).Where("active = ?", true).Order(bannerOrdering).Find(&banners).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active banners: %w", err)
	}
	return banners, nil
}

func (s *BannerStore) Update(ctx context.Context, id uint, in BannerUpdate) (*models.Banner, error) {
	var verr ValidationError
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
		checkText(&verr, "name", v, bannerNameMax)
	}
	checkImage(&verr, "image", in.Image)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if _, err := findBanner(db, id); err != nil {
		return nil, err
	}

	staged := &stagedBlobs{blobs: s.blobs}
	key, err := staged.save(ctx, bannerImagePrefix, in.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to store banner image: %w", err)
	}

	var (
		banner   *models.Banner
		replaced string
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		found, err := findBanner(tx, id)
		if err != nil {
			return err
		}
		banner = found
		if in.Name != nil {
			banner.Name = *in.Name
		}
		if in.Active != nil {
			banner.Active = *in.Active
		}
		if key != "" {
			replaced = banner.Image
			banner.Image = key
		}
		return tx.Save(banner).Error
	})
	if err != nil {
		staged.discard(ctx)
		return nil, passThrough(err, "failed to update banner")
	}

	removeBlobs(ctx, s.blobs, replaced)
	return banner, nil
}

func (s *BannerStore) Delete(ctx context.Context, id uint) error {
	var banner *models.Banner
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findBanner(tx, id)
		if err != nil {
			return err
		}
		banner = found
		return tx.Delete(&models.Banner{}, id).Error
	})
	if err != nil {
		return passThrough(err, "failed to delete banner")
	}

	removeBlobs(ctx, s.blobs, banner.Image)
	return nil
}
