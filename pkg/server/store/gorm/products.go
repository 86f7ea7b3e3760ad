package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const entityProduct = "product"

// Ensure ProductsStore implements store.ProductsStore
var _ store.ProductsStore = (*ProductsStore)(nil)

// ProductsStore implements store.ProductsStore using GORM
type ProductsStore struct {
	db *gorm.DB
}

// NewProductsStore creates a new ProductsStore
func NewProductsStore(db *gorm.DB) *ProductsStore {
	return &ProductsStore{db: db}
}

func (s *ProductsStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Order("sequence NULLS LAST").Order("product_id").Find(&products).Error
	return products, translateError(entityProduct, nil, err)
}

func (s *ProductsStore) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := findOne(s.db.WithContext(ctx), &product, entityProduct, id, "product_id = ?", id); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductsStore) GetProductByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	if err := findOne(s.db.WithContext(ctx), &product, entityProduct, code, "code = ?", code); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductsStore) CreateProduct(ctx context.Context, product *model.Product) error {
	return translateError(entityProduct, product.Code, s.db.WithContext(ctx).Create(product).Error)
}

func (s *ProductsStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	return updateRow(s.db.WithContext(ctx), product, entityProduct, "product_id", product.ProductID)
}

func (s *ProductsStore) DeleteProduct(ctx context.Context, id uint) error {
	return deleteRow(s.db.WithContext(ctx), &model.Product{}, entityProduct, id)
}
