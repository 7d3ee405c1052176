package controllers

import (
	"time"

	"jewelstore/models"
	"jewelstore/storage"
	"jewelstore/store"
)

const priceScale = 2

type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductResponse struct {
	ID              uint             `json:"id"`
	ProductID       string           `json:"product_id"`
	Name            string           `json:"name"`
	Category        uint             `json:"category"`
	CategoryDetails *CategorySummary `json:"category_details"`
	Size            *string          `json:"size"`
	Image1          string           `json:"image1"`
	Image2          *string          `json:"image2"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// PriceResponse renders amounts as fixed two-decimal strings.
type PriceResponse struct {
	ID            uint      `json:"id"`
	GoldPrice     string    `json:"gold_price"`
	SilverPrice   string    `json:"silver_price"`
	EffectiveDate time.Time `json:"effective_date"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsCurrent     *bool     `json:"is_current,omitempty"`
}

type BannerResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func productResponse(media *storage.Media, p models.Product) ProductResponse {
	resp := ProductResponse{
		ID:        p.ID,
		ProductID: p.ProductID,
		Name:      p.Name,
		Category:  p.CategoryID,
		Size:      p.Size,
		Image1:    media.URL(p.Image1),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Category.ID != 0 {
		resp.CategoryDetails = &CategorySummary{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
	}
	if p.Image2 != nil {
		url := media.URL(*p.Image2)
		resp.Image2 = &url
	}
	return resp
}

func productResponses(media *storage.Media, products []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = productResponse(media, p)
	}
	return out
}

func priceResponse(p models.Price) PriceResponse {
	return PriceResponse{
		ID:            p.ID,
		GoldPrice:     p.GoldPrice.StringFixed(priceScale),
		SilverPrice:   p.SilverPrice.StringFixed(priceScale),
		EffectiveDate: p.EffectiveDate,
		UpdatedAt:     p.UpdatedAt,
	}
}

func bannerResponse(media *storage.Media, b models.Banner) BannerResponse {
	return BannerResponse{
		ID:        b.ID,
		Name:      b.Name,
		Image:     media.URL(b.Image),
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func bannerResponses(media *storage.Media, banners []models.Banner) []BannerResponse {
	out := make([]BannerResponse, len(banners))
	for i, b := range banners {
		out[i] = bannerResponse(media, b)
	}
	return out
}

// mapPage converts the rows of a page, keeping its counters.
func mapPage[T, R any](page *store.Page[T], convert func(T) R) store.Page[R] {
	results := make([]R, len(page.Results))
	for i, row := range page.Results {
		results[i] = convert(row)
	}
	return store.Page[R]{Count: page.Count, Page: page.Page, PageSize: page.PageSize, Results: results}
}
