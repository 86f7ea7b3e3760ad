// Package service holds the business rules of tenant-config.
//
// Each entity has a service that validates input, checks alternate-key
// uniqueness and referenced entities, and persists through a store.Store.
// ConfigurationService and TenantFeatureService implement the two
// reconciliation algorithms: the modules enabled for a branch and product,
// and the feature overrides of a tenant. Both run in one transaction with
// the owning row locked.
//
// Failures the caller can act on are *Error values whose kind is one of
// ErrValidation, store.ErrNotFound, store.ErrDuplicate or
// store.ErrReferenced:
//
//	_, err := svc.Tenants.Create(ctx, in)
//	if errors.Is(err, store.ErrDuplicate) {
//	    // 409
//	}
//
// Every write is recorded through the audit package.
package service
