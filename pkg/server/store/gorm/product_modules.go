package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const entityProductModule = "product module"

// Ensure ProductModulesStore implements store.ProductModulesStore
var _ store.ProductModulesStore = (*ProductModulesStore)(nil)

// ProductModulesStore implements store.ProductModulesStore using GORM
type ProductModulesStore struct {
	db *gorm.DB
}

// NewProductModulesStore creates a new ProductModulesStore
func NewProductModulesStore(db *gorm.DB) *ProductModulesStore {
	return &ProductModulesStore{db: db}
}

func (s *ProductModulesStore) ListProductModules(ctx context.Context) ([]model.ProductModule, error) {
	var pms []model.ProductModule
	err := s.db.WithContext(ctx).Order("product_id").Order("sequence NULLS LAST").Order("product_module_id").Find(&pms).Error
	return pms, translateError(entityProductModule, nil, err)
}

func (s *ProductModulesStore) GetProductModule(ctx context.Context, id uint) (*model.ProductModule, error) {
	var pm model.ProductModule
	if err := findOne(s.db.WithContext(ctx), &pm, entityProductModule, id, "product_module_id = ?", id); err != nil {
		return nil, err
	}
	return &pm, nil
}

func (s *ProductModulesStore) GetProductModuleByPair(ctx context.Context, productID, moduleID uint) (*model.ProductModule, error) {
	var pm model.ProductModule
	err := findOne(s.db.WithContext(ctx), &pm, entityProductModule, moduleID,
		"product_id = ? AND module_id = ?", productID, moduleID)
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (s *ProductModulesStore) ListModulesForProduct(ctx context.Context, productID uint) ([]store.LinkedModule, error) {
	var linked []store.LinkedModule
	err := s.db.WithContext(ctx).
		Table("product_module AS pm").
		Select("pm.product_module_id, pm.module_id, COALESCE(m.name, '') AS module_name, COALESCE(m.code, '') AS module_code").
		Joins("JOIN module m ON m.module_id = pm.module_id").
		Where("pm.product_id = ?", productID).
		Order("pm.product_module_id").
		Scan(&linked).Error
	return linked, translateError(entityProductModule, nil, err)
}

func (s *ProductModulesStore) CreateProductModule(ctx context.Context, pm *model.ProductModule) error {
	return translateError(entityProductModule, pm.ModuleID, s.db.WithContext(ctx).Create(pm).Error)
}

func (s *ProductModulesStore) UpdateProductModule(ctx context.Context, pm *model.ProductModule) error {
	return updateRow(s.db.WithContext(ctx), pm, entityProductModule, "product_module_id", pm.ProductModuleID)
}

func (s *ProductModulesStore) DeleteProductModule(ctx context.Context, id uint) error {
	return deleteRow(s.db.WithContext(ctx), &model.ProductModule{}, entityProductModule, id)
}
