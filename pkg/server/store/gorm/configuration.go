package gorm

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const (
	entityBranchProductModule = "branch product module"
	entityTenantFeature       = "tenant feature"
)

var (
	_ store.ConfigurationStore  = (*ConfigurationStore)(nil)
	_ store.TenantFeaturesStore = (*TenantFeaturesStore)(nil)
)

// ConfigurationStore implements store.ConfigurationStore using GORM
type ConfigurationStore struct {
	db *gorm.DB
}

// NewConfigurationStore creates a new ConfigurationStore
func NewConfigurationStore(db *gorm.DB) *ConfigurationStore {
	return &ConfigurationStore{db: db}
}

func (s *ConfigurationStore) ListConfiguredModules(ctx context.Context, branchID, productID uint) ([]store.ConfiguredModule, error) {
	var configured []store.ConfiguredModule
	err := s.db.WithContext(ctx).
		Table("branch_product_module AS bpm").
		Select("bpm.tenant_product_module AS branch_product_module_id, pm.product_module_id, pm.module_id, COALESCE(m.name, '') AS module_name").
		Joins("JOIN product_module pm ON pm.product_module_id = bpm.product_module_id").
		Joins("JOIN module m ON m.module_id = pm.module_id").
		Where("bpm.branch_id = ? AND pm.product_id = ?", branchID, productID).
		Order("bpm.tenant_product_module").
		Scan(&configured).Error
	return configured, translateError(entityBranchProductModule, nil, err)
}

func (s *ConfigurationStore) CreateBranchProductModules(ctx context.Context, rows []model.BranchProductModule) error {
	if len(rows) == 0 {
		return nil
	}
	return translateError(entityBranchProductModule, nil, s.db.WithContext(ctx).Create(&rows).Error)
}

func (s *ConfigurationStore) DeleteBranchProductModules(ctx context.Context, branchID uint, productModuleIDs []uint) (int64, error) {
	if len(productModuleIDs) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("branch_id = ? AND product_module_id IN ?", branchID, productModuleIDs).
		Delete(&model.BranchProductModule{})
	return res.RowsAffected, translateError(entityBranchProductModule, nil, res.Error)
}

// TenantFeaturesStore implements store.TenantFeaturesStore using GORM
type TenantFeaturesStore struct {
	db *gorm.DB
}

// NewTenantFeaturesStore creates a new TenantFeaturesStore
func NewTenantFeaturesStore(db *gorm.DB) *TenantFeaturesStore {
	return &TenantFeaturesStore{db: db}
}

func (s *TenantFeaturesStore) ListTenantFeatures(ctx context.Context, tenantID uint) ([]model.TenantFeature, error) {
	var rows []model.TenantFeature
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("feature_id").Find(&rows).Error
	return rows, translateError(entityTenantFeature, nil, err)
}

// UpsertTenantFeatures writes overrides with INSERT ... ON CONFLICT
// (tenant_id, feature_id) DO UPDATE
func (s *TenantFeaturesStore) UpsertTenantFeatures(ctx context.Context, rows []model.TenantFeature) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "feature_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_enabled", "modified_on"}),
	}).Create(&rows).Error
	return translateError(entityTenantFeature, nil, err)
}
