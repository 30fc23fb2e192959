package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
)

type productRepo interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
	GetByID(ctx context.Context, productID int64) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, productID int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type eventDispatcher interface {
	Dispatch(ctx context.Context, eventType string, payload map[string]any) []DeliveryResult
}

type ProductView struct {
	ID          int64  `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func productViewOf(p domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

type ListProductsOutput struct {
	Products   []ProductView `json:"products"`
	Pagination Pagination    `json:"pagination"`
}

type CreateProductInput struct {
	SKU         string
	Name        string
	Description string
	Active      *bool
}

type UpdateProductInput struct {
	SKU         *string
	Name        *string
	Description *string
	Active      *bool
}

// ProductService is the direct CRUD path over the record store. Every
// committed mutation fires the matching catalog event.
type ProductService struct {
	repo   productRepo
	events eventDispatcher
}

func NewProductService(repo productRepo, events eventDispatcher) *ProductService {
	return &ProductService{repo: repo, events: events}
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) (ListProductsOutput, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return ListProductsOutput{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 50
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, productViewOf(p))
	}

	return ListProductsOutput{
		Products: views,
		Pagination: Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   pages,
		},
	}, nil
}

func (s *ProductService) Get(ctx context.Context, productID int64) (ProductView, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return ProductView{}, err
	}
	return productViewOf(*product), nil
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (ProductView, error) {
	if strings.TrimSpace(in.SKU) == "" {
		return ProductView{}, ErrSKURequired
	}

	if _, err := s.repo.FindBySKU(ctx, in.SKU); err == nil {
		return ProductView{}, domain.ErrDuplicateSKU
	} else if !errors.Is(err, domain.ErrProductNotFound) {
		return ProductView{}, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	created, err := s.repo.Create(ctx, domain.Product{
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Active:      active,
	})
	if err != nil {
		return ProductView{}, err
	}

	view := productViewOf(created)
	s.events.Dispatch(ctx, domain.EventProductCreated, map[string]any{
		"event":   domain.EventProductCreated,
		"product": view,
	})
	return view, nil
}

func (s *ProductService) Update(ctx context.Context, productID int64, in UpdateProductInput) (ProductView, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return ProductView{}, err
	}

	if in.SKU != nil {
		existing, err := s.repo.FindBySKU(ctx, *in.SKU)
		if err == nil && existing.ID != productID {
			return ProductView{}, domain.ErrDuplicateSKU
		}
		if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
			return ProductView{}, err
		}
		product.SKU = *in.SKU
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Active != nil {
		product.Active = *in.Active
	}

	updated, err := s.repo.Update(ctx, *product)
	if err != nil {
		return ProductView{}, err
	}

	view := productViewOf(updated)
	s.events.Dispatch(ctx, domain.EventProductUpdated, map[string]any{
		"event":   domain.EventProductUpdated,
		"product": view,
	})
	return view, nil
}

func (s *ProductService) Delete(ctx context.Context, productID int64) error {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	s.events.Dispatch(ctx, domain.EventProductDeleted, map[string]any{
		"event":   domain.EventProductDeleted,
		"product": productViewOf(*product),
	})
	return nil
}

func (s *ProductService) BulkDelete(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.events.Dispatch(ctx, domain.EventProductBulkDeleted, map[string]any{
		"event": domain.EventProductBulkDeleted,
		"count": count,
	})
	return count, nil
}
