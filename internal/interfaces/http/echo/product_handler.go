package echo

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/product-import/internal/application/catalog"
	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
)

type productService interface {
	List(ctx context.Context, filter domain.ProductFilter) (app.ListProductsOutput, error)
	Get(ctx context.Context, productID int64) (app.ProductView, error)
	Create(ctx context.Context, in app.CreateProductInput) (app.ProductView, error)
	Update(ctx context.Context, productID int64, in app.UpdateProductInput) (app.ProductView, error)
	Delete(ctx context.Context, productID int64) error
	BulkDelete(ctx context.Context) (int64, error)
}

type ProductHandler struct {
	products productService
}

func NewProductHandler(products productService) *ProductHandler {
	return &ProductHandler{products: products}
}

type createProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type updateProductRequest struct {
	SKU         *string `json:"sku"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

func (h *ProductHandler) List(c echo.Context) error {
	filter := domain.ProductFilter{
		SKU:         c.QueryParam("sku"),
		Name:        c.QueryParam("name"),
		Description: c.QueryParam("description"),
		SortBy:      c.QueryParam("sort_by"),
		SortOrder:   c.QueryParam("sort_order"),
		Page:        queryInt(c, "page", 1),
		PerPage:     queryInt(c, "per_page", 50),
	}

	if raw := c.QueryParam("active"); raw != "" {
		active := raw == "true" || raw == "1" || raw == "yes"
		filter.Active = &active
	}

	out, err := h.products.List(c.Request().Context(), filter)
	if err != nil {
		return internalError(c, "failed to list products")
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) Get(c echo.Context) error {
	productID, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be an integer")
	}

	view, err := h.products.Get(c.Request().Context(), productID)
	if err != nil {
		return productError(c, err, "failed to get product")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: view})
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	view, err := h.products.Create(c.Request().Context(), app.CreateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		if errors.Is(err, app.ErrSKURequired) {
			return badRequest(c, "sku is required")
		}
		if errors.Is(err, domain.ErrDuplicateSKU) {
			return badRequest(c, "product with this sku already exists")
		}
		return internalError(c, "failed to create product")
	}

	return c.JSON(http.StatusCreated, apiResponse{Data: view})
}

func (h *ProductHandler) Update(c echo.Context) error {
	productID, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be an integer")
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	view, err := h.products.Update(c.Request().Context(), productID, app.UpdateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSKU) {
			return badRequest(c, "product with this sku already exists")
		}
		return productError(c, err, "failed to update product")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: view})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	productID, ok := pathID(c)
	if !ok {
		return badRequest(c, "id must be an integer")
	}

	if err := h.products.Delete(c.Request().Context(), productID); err != nil {
		return productError(c, err, "failed to delete product")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: map[string]string{
		"message": "Product deleted successfully",
	}})
}

func (h *ProductHandler) BulkDelete(c echo.Context) error {
	count, err := h.products.BulkDelete(c.Request().Context())
	if err != nil {
		return internalError(c, "failed to delete products")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: map[string]any{
		"message": "Products deleted successfully",
		"count":   count,
	}})
}

func productError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, domain.ErrProductNotFound) {
		return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
			Code:    "not_found",
			Message: "product not found",
		}})
	}
	return internalError(c, fallback)
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
		Code:    "bad_request",
		Message: message,
	}})
}

func internalError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
		Code:    "internal_error",
		Message: message,
	}})
}
