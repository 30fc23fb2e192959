package repository

import (
	"context"
	"errors"
	"fmt"

	catalog "github.com/mohammadpnp/product-import/internal/domain/catalog"
	"github.com/mohammadpnp/product-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

var productSortColumns = map[string]bool{
	"id":         true,
	"sku":        true,
	"name":       true,
	"active":     true,
	"created_at": true,
	"updated_at": true,
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.SKU != "" {
		query = query.Where("sku ILIKE ?", "%"+filter.SKU+"%")
	}
	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Description != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Description+"%")
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	sortBy := filter.SortBy
	if !productSortColumns[sortBy] {
		sortBy = "id"
	}
	order := sortBy
	if filter.SortOrder == "desc" {
		order += " DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 50
	}

	var rows []models.Product
	err := query.Order(order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	products := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, productToDomain(row))
	}

	return products, total, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, productID int64) (*catalog.Product, error) {
	var row models.Product

	err := r.db.WithContext(ctx).First(&row, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	product := productToDomain(row)
	return &product, nil
}

// FindBySKU matches case-insensitively; it backs the duplicate guard on the
// direct create/update paths.
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var row models.Product

	err := r.db.WithContext(ctx).
		Where("lower(sku) = lower(?)", sku).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product by sku: %w", err)
	}

	product := productToDomain(row)
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	row := models.Product{
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		Active:      product.Active,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}

	return productToDomain(row), nil
}

func (r *ProductRepository) Update(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	updates := map[string]any{
		"sku":         product.SKU,
		"name":        product.Name,
		"description": product.Description,
		"active":      product.Active,
	}

	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(updates).Error
	if err != nil {
		return catalog.Product{}, fmt.Errorf("update product: %w", err)
	}

	updated, err := r.GetByID(ctx, product.ID)
	if err != nil {
		return catalog.Product{}, err
	}
	return *updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, productID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", productID)
	if result.Error != nil {
		return fmt.Errorf("delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Product{})
	if result.Error != nil {
		return 0, fmt.Errorf("bulk delete products: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func productToDomain(row models.Product) catalog.Product {
	return catalog.Product{
		ID:          row.ID,
		SKU:         row.SKU,
		Name:        row.Name,
		Description: row.Description,
		Active:      row.Active,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
