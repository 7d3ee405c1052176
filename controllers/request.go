package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"jewelstore/storage"
	"jewelstore/store"
)

const msgInvalidNumber = "A valid number is required."

// formField returns the first of names present in a multipart or urlencoded
// body, nil when none was sent.
func formField(c *fiber.Ctx, names ...string) *string {
	if form, err := c.MultipartForm(); err == nil {
		for _, name := range names {
			if values, ok := form.Value[name]; ok && len(values) > 0 {
				v := values[0]
				return &v
			}
		}
		return nil
	}
	args := c.Request().PostArgs()
	for _, name := range names {
		if args.Has(name) {
			v := string(args.Peek(name))
			return &v
		}
	}
	return nil
}

// formUpload reads an uploaded file. It returns nil when the field is absent.
func (h *Handler) formUpload(c *fiber.Ctx, verr *store.ValidationError, field string) *storage.Upload {
	fh, err := c.FormFile(field)
	if err != nil {
		if !errors.Is(err, fasthttp.ErrMissingFile) && !errors.Is(err, fasthttp.ErrNoMultipartForm) {
			verr.Add(field, "The submitted data was not a file. Check the encoding type on the form.")
		}
		return nil
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		verr.Add(field, fmt.Sprintf("Ensure this file is no larger than %d bytes.", h.maxUpload))
		return nil
	}

	f, err := fh.Open()
	if err != nil {
		verr.Add(field, "The submitted file is empty.")
		return nil
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil || len(data) == 0 {
		verr.Add(field, "The submitted file is empty.")
		return nil
	}
	return &storage.Upload{Filename: fh.Filename, Data: data}
}

// formBool reads a boolean form field the way HTML forms and API clients
// send it.
func formBool(verr *store.ValidationError, field string, raw *string) *bool {
	if raw == nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(*raw)) {
	case "true", "1", "on", "yes":
		v := true
		return &v
	case "false", "0", "off", "no", "":
		v := false
		return &v
	}
	verr.Add(field, "Must be a valid boolean.")
	return nil
}

func formUint(verr *store.ValidationError, field string, raw *string) *uint {
	if raw == nil {
		return nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(*raw), 10, 64)
	if err != nil {
		verr.Add(field, "Incorrect type. Expected pk value.")
		return nil
	}
	v := uint(n)
	return &v
}

// parseAmount accepts a JSON number or a numeric string.
func parseAmount(verr *store.ValidationError, field string, raw json.RawMessage) *decimal.Decimal {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		verr.Add(field, msgInvalidNumber)
		return nil
	}
	return &d
}

func parseAmountString(verr *store.ValidationError, field string, raw *string) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		verr.Add(field, msgInvalidNumber)
		return nil
	}
	return &d
}

func isJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEApplicationJSON)
}
