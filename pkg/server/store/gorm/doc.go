// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Store composes every per-entity store over one *gorm.DB and adds
// Transaction, which rebinds all of them to a single transaction. Errors are
// translated with pgconn error codes: unique violations become
// store.ErrDuplicate and foreign key violations store.ErrReferenced.
package gorm
