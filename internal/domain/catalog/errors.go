package catalog

import "errors"

var (
	ErrEmptySKU        = errors.New("empty sku")
	ErrDuplicateSKU    = errors.New("product with this sku already exists")
	ErrProductNotFound = errors.New("product not found")
	ErrJobNotFound     = errors.New("import job not found")
	ErrWebhookNotFound = errors.New("webhook not found")
)
