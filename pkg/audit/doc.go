// Package audit records configuration changes as RFC5424 syslog lines.
//
// Every successful or failed write made through the service layer produces
// an event:
//
//   - ModuleConfigurationEvent: branch/product module reconciliation and
//     single-module removal
//   - FeatureConfigurationEvent: tenant feature reconciliation
//   - ChangeEvent: create, update and delete of any entity
//
// Events go to stdout through DefaultLogger and, when AUDIT_DATABASE_URL is
// set, to the messages table of that database.
//
// # Usage
//
//	audit.Log(audit.ChangeEvent{
//		Actor:     audit.Actor{ClientIP: "10.0.0.1"},
//		Entity:    "tenant",
//		EntityID:  "42",
//		Operation: "create",
//		Success:   true,
//	})
//
// Logging is skipped entirely after SetEnabled(false).
package audit
