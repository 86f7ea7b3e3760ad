// Package metrics exposes prometheus collectors for the HTTP API and the
// reconciliation algorithms.
package metrics
