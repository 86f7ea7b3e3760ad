// Package model defines the database models for tenant-config.
//
// This package contains GORM models that map to the PostgreSQL schema
// created by the migrations under db/migrations.
//
// # Core Models
//
//   - Country: reference data owning tenants and branches
//   - Tenant: a customer organization, keyed by (tenant_id, organization_code, sub_domain)
//   - Branch: a tenant's operating location
//   - Product, ProductTag: configurable products and their grouping tags
//   - Module: a capability unit assignable to products
//   - ProductModule: the (product, module) link
//   - BranchProductModule: a module enabled for a product at a branch
//   - Feature, TenantFeature: global feature flags and per-tenant overrides
//
// # Database Schema
//
// Table names are singular (country, tenant, branch, ...). Deletes cascade
// along the foreign keys declared in the migrations; product parents and
// product tags are set to NULL instead.
package model
