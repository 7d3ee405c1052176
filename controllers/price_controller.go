package controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"jewelstore/cache"
	"jewelstore/models"
	"jewelstore/store"
)

type pricePayload struct {
	GoldPrice   json.RawMessage `json:"gold_price"`
	SilverPrice json.RawMessage `json:"silver_price"`
}

// parsePrice reads amounts from a JSON body or, failing that, from form fields.
func parsePrice(c *fiber.Ctx) (store.PriceInput, error) {
	var (
		verr store.ValidationError
		in   store.PriceInput
	)
	switch {
	case isJSON(c):
		var p pricePayload
		if len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &p); err != nil {
				return in, badRequest("JSON parse error - " + err.Error())
			}
		}
		in.GoldPrice = parseAmount(&verr, "gold_price", p.GoldPrice)
		in.SilverPrice = parseAmount(&verr, "silver_price", p.SilverPrice)
	default:
		in.GoldPrice = parseAmountString(&verr, "gold_price", formField(c, "gold_price"))
		in.SilverPrice = parseAmountString(&verr, "silver_price", formField(c, "silver_price"))
	}
	return in, verr.OrNil()
}

// ListPrices pages the ledger newest first and flags the current quotation.
func (h *Handler) ListPrices(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page, err := h.prices.List(ctx, pageRequest(c))
	if err != nil {
		return err
	}
	current, ok, err := h.prices.Current(ctx)
	if err != nil {
		return err
	}

	return c.JSON(mapPage(page, func(p models.Price) PriceResponse {
		resp := priceResponse(p)
		isCurrent := ok && p.ID == current.ID
		resp.IsCurrent = &isCurrent
		return resp
	}))
}

// LatestPrice returns the current quotation, served from the cache when
// possible.
func (h *Handler) LatestPrice(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var cached PriceResponse
	hit, gen := h.cacheGet(ctx, cache.KeyLatestPrice, &cached)
	if hit {
		return c.JSON(cached)
	}

	current, ok, err := h.prices.Current(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No prices available"})
	}
	resp := priceResponse(*current)
	h.cacheFill(ctx, cache.KeyLatestPrice, gen, resp)
	return c.JSON(resp)
}

func (h *Handler) GetPrice(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	price, err := h.prices.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(priceResponse(*price))
}

func (h *Handler) CreatePrice(c *fiber.Ctx) error {
	in, err := parsePrice(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	price, err := h.prices.Create(ctx, in)
	if err != nil {
		return err
	}
	h.invalidate(ctx, cache.KeyLatestPrice)
	return c.Status(fiber.StatusCreated).JSON(priceResponse(*price))
}

// UpdatePrice serves PUT and PATCH; PUT needs both amounts.
func (h *Handler) UpdatePrice(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	in, err := parsePrice(c)
	if err != nil {
		return err
	}
	if c.Method() == fiber.MethodPut {
		var verr store.ValidationError
		if in.GoldPrice == nil {
			verr.Add("gold_price", "This field is required.")
		}
		if in.SilverPrice == nil {
			verr.Add("silver_price", "This field is required.")
		}
		if err := verr.OrNil(); err != nil {
			return err
		}
	}

	ctx := c.UserContext()
	price, err := h.prices.Update(ctx, id, in)
	if err != nil {
		return err
	}
	h.invalidate(ctx, cache.KeyLatestPrice)
	return c.JSON(priceResponse(*price))
}

func (h *Handler) DeletePrice(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if err := h.prices.Delete(ctx, id); err != nil {
		return err
	}
	h.invalidate(ctx, cache.KeyLatestPrice)
	return c.SendStatus(fiber.StatusNoContent)
}
