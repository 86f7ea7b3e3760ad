// Package logger provides the zap logger used across tenant-config.
//
// InitLogger builds a JSON logger in production and a colored console
// logger elsewhere. HTTP handlers get a request-scoped logger carrying the
// request id through FromContext.
package logger
