package store

import (
	"context"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// ConfiguredModule is a module enabled for a branch and product.
type ConfiguredModule struct {
	BranchProductModuleID uint
	ProductModuleID       uint
	ModuleID              uint
	ModuleName            string
}

// ConfigurationStore abstracts the branch/product module configuration
type ConfigurationStore interface {
	// ListConfiguredModules returns the modules enabled for a branch and
	// product in configuration order
	ListConfiguredModules(ctx context.Context, branchID, productID uint) ([]ConfiguredModule, error)

	CreateBranchProductModules(ctx context.Context, rows []model.BranchProductModule) error

	// DeleteBranchProductModules removes the configuration of the given
	// product modules at a branch and returns the number of rows removed
	DeleteBranchProductModules(ctx context.Context, branchID uint, productModuleIDs []uint) (int64, error)
}

// TenantFeaturesStore abstracts per-tenant feature overrides
type TenantFeaturesStore interface {
	ListTenantFeatures(ctx context.Context, tenantID uint) ([]model.TenantFeature, error)

	// UpsertTenantFeatures inserts overrides, replacing is_enabled and
	// modified_on on (tenant_id, feature_id) conflicts
	UpsertTenantFeatures(ctx context.Context, rows []model.TenantFeature) error
}
