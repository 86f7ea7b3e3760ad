package store

import "context"

// Store groups every repository. Transaction runs fn against a Store bound
// to a single database transaction; returning an error rolls it back.
type Store interface {
	HealthStore
	CountriesStore
	TenantsStore
	BranchesStore
	ProductTagsStore
	ProductsStore
	ModulesStore
	ProductModulesStore
	FeaturesStore
	ConfigurationStore
	TenantFeaturesStore

	Transaction(ctx context.Context, fn func(tx Store) error) error
}
