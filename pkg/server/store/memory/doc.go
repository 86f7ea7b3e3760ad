// Package memory provides an in-memory implementation of store.Store for
// tests and local tooling. It mirrors the unique constraints, foreign keys
// and ON DELETE actions of the SQL schema.
package memory
