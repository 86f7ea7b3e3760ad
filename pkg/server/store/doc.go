// Package store provides storage abstractions for the tenant-config server.
//
// This package defines interfaces for database operations, allowing the
// services and endpoints to be decoupled from the specific database
// implementation. Implementations live in the gorm and memory subpackages.
//
// # Available Stores
//
//   - CountriesStore, TenantsStore, BranchesStore: organizations and locations
//   - ProductTagsStore, ProductsStore, ModulesStore, ProductModulesStore,
//     FeaturesStore: the catalog
//   - ConfigurationStore: modules enabled per branch and product
//   - TenantFeaturesStore: per-tenant feature overrides
//   - HealthStore: connectivity checks
//
// Store aggregates all of them and adds Transaction.
//
// # Errors
//
// Implementations translate storage failures into ErrNotFound,
// ErrDuplicate and ErrReferenced:
//
//	tenant, err := st.GetTenant(ctx, id)
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
