package gorm

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const entityTenant = "tenant"

// Ensure TenantsStore implements store.TenantsStore
var _ store.TenantsStore = (*TenantsStore)(nil)

// TenantsStore implements store.TenantsStore using GORM
type TenantsStore struct {
	db *gorm.DB
}

// NewTenantsStore creates a new TenantsStore
func NewTenantsStore(db *gorm.DB) *TenantsStore {
	return &TenantsStore{db: db}
}

// ListTenants returns all tenants ordered by name
func (s *TenantsStore) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	err := s.db.WithContext(ctx).Order("tenant_name").Order("tenant_id").Find(&tenants).Error
	return tenants, translateError(entityTenant, nil, err)
}

func (s *TenantsStore) GetTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := findOne(s.db.WithContext(ctx), &tenant, entityTenant, id, "tenant_id = ?", id); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetTenantByKey looks a tenant up by (tenant_id, organization_code, sub_domain)
func (s *TenantsStore) GetTenantByKey(ctx context.Context, key model.TenantKey) (*model.Tenant, error) {
	var tenant model.Tenant
	err := findOne(s.db.WithContext(ctx), &tenant, entityTenant, key.TenantID,
		"tenant_id = ? AND organization_code = ? AND sub_domain = ?",
		key.TenantID, key.OrganizationCode, key.SubDomain)
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *TenantsStore) GetTenantByOrganizationCode(ctx context.Context, code string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := findOne(s.db.WithContext(ctx), &tenant, entityTenant, code, "organization_code = ?", code); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *TenantsStore) GetTenantBySubDomain(ctx context.Context, subDomain string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := findOne(s.db.WithContext(ctx), &tenant, entityTenant, subDomain, "sub_domain = ?", subDomain); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// LockTenant selects the tenant FOR UPDATE
func (s *TenantsStore) LockTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	db := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	if err := findOne(db, &tenant, entityTenant, id, "tenant_id = ?", id); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *TenantsStore) CreateTenant(ctx context.Context, tenant *model.Tenant) error {
	return translateError(entityTenant, tenant.OrganizationCode, s.db.WithContext(ctx).Create(tenant).Error)
}

func (s *TenantsStore) UpdateTenant(ctx context.Context, tenant *model.Tenant) error {
	return updateRow(s.db.WithContext(ctx), tenant, entityTenant, "tenant_id", tenant.TenantID)
}

func (s *TenantsStore) DeleteTenant(ctx context.Context, id uint) error {
	return deleteRow(s.db.WithContext(ctx), &model.Tenant{}, entityTenant, id)
}
