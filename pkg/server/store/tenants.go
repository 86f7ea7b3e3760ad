package store

import (
	"context"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// TenantsStore abstracts tenant storage operations.
// Lookups return a *NotFoundError wrapping ErrNotFound when no row matches.
type TenantsStore interface {
	// ListTenants returns all tenants ordered by name
	ListTenants(ctx context.Context) ([]model.Tenant, error)
	GetTenant(ctx context.Context, id uint) (*model.Tenant, error)

	// GetTenantByKey looks a tenant up by its composite key
	GetTenantByKey(ctx context.Context, key model.TenantKey) (*model.Tenant, error)
	GetTenantByOrganizationCode(ctx context.Context, code string) (*model.Tenant, error)
	GetTenantBySubDomain(ctx context.Context, subDomain string) (*model.Tenant, error)

	// LockTenant takes a row lock on the tenant for the rest of the
	// enclosing transaction
	LockTenant(ctx context.Context, id uint) (*model.Tenant, error)

	CreateTenant(ctx context.Context, tenant *model.Tenant) error
	UpdateTenant(ctx context.Context, tenant *model.Tenant) error

	// DeleteTenant deletes a tenant; branches and feature overrides cascade
	DeleteTenant(ctx context.Context, id uint) error
}

// BranchesStore abstracts branch storage operations
type BranchesStore interface {
	ListBranchesByTenant(ctx context.Context, tenantID uint) ([]model.Branch, error)
	GetBranch(ctx context.Context, id uint) (*model.Branch, error)

	// GetBranchByCode finds a branch by code within a tenant
	GetBranchByCode(ctx context.Context, tenantID uint, code string) (*model.Branch, error)

	// LockBranch takes a row lock on the branch for the rest of the
	// enclosing transaction
	LockBranch(ctx context.Context, id uint) (*model.Branch, error)

	CreateBranch(ctx context.Context, branch *model.Branch) error
	UpdateBranch(ctx context.Context, branch *model.Branch) error

	// DeleteBranch deletes a branch; its module configuration cascades
	DeleteBranch(ctx context.Context, id uint) error
}
