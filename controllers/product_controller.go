package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"jewelstore/models"
	"jewelstore/store"
)

func (h *Handler) toProduct(p models.Product) ProductResponse {
	return productResponse(h.media, p)
}

// ListProducts supports ?category=<id>&size=&search=&ordering=&page=&page_size=.
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	filter := store.ProductFilter{
		Search:      c.Query("search"),
		Ordering:    c.Query("ordering"),
		PageRequest: pageRequest(c),
	}
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return &store.ValidationError{Fields: map[string][]string{
				"category": {"Select a valid choice. That choice is not one of the available choices."},
			}}
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if size := c.Query("size"); size != "" {
		filter.Size = &size
	}

	page, err := h.products.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(mapPage(page, h.toProduct))
}

func (h *Handler) LatestFeatured(c *fiber.Ctx) error {
	products, err := h.products.MostRecent(c.UserContext(), store.FeaturedLimit)
	if err != nil {
		return err
	}
	return c.JSON(productResponses(h.media, products))
}

func (h *Handler) ProductsByCategory(c *fiber.Ctx) error {
	products, err := h.products.ByCategory(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(productResponses(h.media, products))
}

func (h *Handler) GetProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	product, err := h.products.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(h.toProduct(*product))
}

func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	var verr store.ValidationError
	in := store.ProductInput{
		Size:   formField(c, "size"),
		Image1: h.formUpload(c, &verr, "image1"),
		Image2: h.formUpload(c, &verr, "image2"),
	}
	if v := formField(c, "product_id"); v != nil {
		in.ProductID = *v
	}
	if v := formField(c, "name", "product_name"); v != nil {
		in.Name = *v
	}
	if id := formUint(&verr, "category", formField(c, "category")); id != nil {
		in.CategoryID = *id
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	product, err := h.products.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(h.toProduct(*product))
}

// UpdateProduct serves PUT and PATCH. Sending an empty image2 field clears
// the secondary image.
func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var verr store.ValidationError
	upd := store.ProductUpdate{
		ProductID:  formField(c, "product_id"),
		Name:       formField(c, "name", "product_name"),
		CategoryID: formUint(&verr, "category", formField(c, "category")),
		Size:       formField(c, "size"),
		Image1:     h.formUpload(c, &verr, "image1"),
		Image2:     h.formUpload(c, &verr, "image2"),
	}
	if upd.Image2 == nil {
		if v := formField(c, "image2"); v != nil && *v == "" {
			upd.ClearImage2 = true
		}
	}
	if c.Method() == fiber.MethodPut {
		for field, missing := range map[string]bool{
			"product_id": upd.ProductID == nil,
			"name":       upd.Name == nil,
			"category":   upd.CategoryID == nil && verr.Fields["category"] == nil,
		} {
			if missing {
				verr.Add(field, "This field is required.")
			}
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	product, err := h.products.Update(c.UserContext(), id, upd)
	if err != nil {
		return err
	}
	return c.JSON(h.toProduct(*product))
}

func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
