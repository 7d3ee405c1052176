package controllers

import (
	"github.com/gofiber/fiber/v2"

	"jewelstore/store"
)

// categoryPayload accepts "category" as an alias of "name".
type categoryPayload struct {
	Name     *string `json:"name" form:"name"`
	Category *string `json:"category" form:"category"`
	Slug     *string `json:"slug" form:"slug"`
}

func (p categoryPayload) name() *string {
	if p.Name != nil {
		return p.Name
	}
	return p.Category
}

func parseCategory(c *fiber.Ctx) (categoryPayload, error) {
	var p categoryPayload
	if len(c.Body()) == 0 {
		return p, nil
	}
	if err := c.BodyParser(&p); err != nil {
		return p, badRequest("Invalid request format")
	}
	return p, nil
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	page, err := h.categories.List(c.UserContext(), store.CategoryFilter{
		Search:      c.Query("search"),
		PageRequest: pageRequest(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *Handler) GetCategory(c *fiber.Ctx) error {
	category, err := h.categories.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	p, err := parseCategory(c)
	if err != nil {
		return err
	}
	in := store.CategoryInput{}
	if name := p.name(); name != nil {
		in.Name = *name
	}
	if p.Slug != nil {
		in.Slug = *p.Slug
	}

	category, err := h.categories.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory serves PUT and PATCH. PUT requires the name; a slug in the
// body is ignored.
func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	p, err := parseCategory(c)
	if err != nil {
		return err
	}
	name := p.name()
	if c.Method() == fiber.MethodPut && name == nil {
		return &store.ValidationError{Fields: map[string][]string{"name": {"This field is required."}}}
	}

	category, err := h.categories.Update(c.UserContext(), c.Params("slug"), store.CategoryUpdate{Name: name})
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categories.Delete(c.UserContext(), c.Params("slug")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
