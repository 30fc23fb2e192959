package catalog

import (
	"strings"
	"time"
)

type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductFilter narrows and pages a product listing.
type ProductFilter struct {
	SKU         string
	Name        string
	Description string
	Active      *bool
	SortBy      string
	SortOrder   string
	Page        int
	PerPage     int
}

// NormalizeSKU reduces a raw SKU to its canonical form. Two SKUs that
// differ only in case or surrounding whitespace identify the same product.
func NormalizeSKU(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NewImportedProduct builds a product from one ingested row. The SKU is
// stored normalized; rows without a SKU are rejected.
func NewImportedProduct(sku, name, description string) (Product, error) {
	normalized := NormalizeSKU(sku)
	if normalized == "" {
		return Product{}, ErrEmptySKU
	}

	return Product{
		SKU:         normalized,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Active:      true,
	}, nil
}
