// Package seed loads catalog reference data (countries, product tags,
// modules, products, product modules and features) from a YAML file.
//
// Entries refer to each other by code. A load upserts every entry by its
// alternate key inside one transaction, so loading the same file twice is a
// no-op.
package seed
