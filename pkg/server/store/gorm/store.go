package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store implements store.Store by composing the per-entity GORM stores
type Store struct {
	*HealthStore
	*CountriesStore
	*TenantsStore
	*BranchesStore
	*ProductTagsStore
	*ProductsStore
	*ModulesStore
	*ProductModulesStore
	*FeaturesStore
	*ConfigurationStore
	*TenantFeaturesStore

	db *gorm.DB
}

// NewStore creates a Store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		HealthStore:         NewHealthStore(db),
		CountriesStore:      NewCountriesStore(db),
		TenantsStore:        NewTenantsStore(db),
		BranchesStore:       NewBranchesStore(db),
		ProductTagsStore:    NewProductTagsStore(db),
		ProductsStore:       NewProductsStore(db),
		ModulesStore:        NewModulesStore(db),
		ProductModulesStore: NewProductModulesStore(db),
		FeaturesStore:       NewFeaturesStore(db),
		ConfigurationStore:  NewConfigurationStore(db),
		TenantFeaturesStore: NewTenantFeaturesStore(db),
		db:                  db,
	}
}

// Transaction runs fn in a database transaction. Every store reached
// through tx shares it.
func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
