package controllers

import (
	"github.com/gofiber/fiber/v2"

	"jewelstore/cache"
	"jewelstore/models"
	"jewelstore/store"
)

func (h *Handler) toBanner(b models.Banner) BannerResponse {
	return bannerResponse(h.media, b)
}

func (h *Handler) ListBanners(c *fiber.Ctx) error {
	var verr store.ValidationError
	filter := store.BannerFilter{
		Search:      c.Query("search"),
		PageRequest: pageRequest(c),
	}
	if raw := c.Query("active"); raw != "" {
		filter.Active = formBool(&verr, "active", &raw)
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	page, err := h.banners.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(mapPage(page, h.toBanner))
}

func (h *Handler) ActiveBanners(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var cached []BannerResponse
	hit, gen := h.cacheGet(ctx, cache.KeyActiveBanners, &cached)
	if hit {
		return c.JSON(cached)
	}

	banners, err := h.banners.ActiveOnly(ctx)
	if err != nil {
		return err
	}
	resp := bannerResponses(h.media, banners)
	h.cacheFill(ctx, cache.KeyActiveBanners, gen, resp)
	return c.JSON(resp)
}

func (h *Handler) GetBanner(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	banner, err := h.banners.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(h.toBanner(*banner))
}

func (h *Handler) CreateBanner(c *fiber.Ctx) error {
	var verr store.ValidationError
	in := store.BannerInput{
		Image:  h.formUpload(c, &verr, "image"),
		Active: formBool(&verr, "active", formField(c, "active")),
	}
	if v := formField(c, "name"); v != nil {
		in.Name = *v
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	ctx := c.UserContext()
	banner, err := h.banners.Create(ctx, in)
	if err != nil {
		return err
	}
	h.invalidate(ctx, cache.KeyActiveBanners)
	return c.Status(fiber.StatusCreated).JSON(h.toBanner(*banner))
}

// UpdateBanner serves PUT and PATCH; PUT needs the name.
func (h *Handler) UpdateBanner(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var verr store.ValidationError
	upd := store.BannerUpdate{
		Name:   formField(c, "name"),
		Image:  h.formUpload(c, &verr, "image"),
		Active: formBool(&verr, "active", formField(c, "active")),
	}
	if c.Method() == fiber.MethodPut && upd.Name == nil {
		verr.Add("name", "This field is required.")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	ctx := c.UserContext()
	banner, err := h.banners.Update(ctx, id, upd)
	if err != nil {
		return err
	}
	h.invalidate(ctx, cache.KeyActiveBanners)
	return c.JSON(h.toBanner(*banner))
}

func (h *Handler) DeleteBanner(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if err := h.banners.Delete(ctx, id); err != nil {
		return err
	}
	h.invalidate(ctx, cache.KeyActiveBanners)
	return c.SendStatus(fiber.StatusNoContent)
}
