// Command tenantctl runs the tenant configuration service.
//
// The service keeps the catalog of products, modules and features, the
// tenants and branches that buy them, and the per-branch module and
// per-tenant feature configuration.
//
// # Quick Start
//
//	# Create or upgrade the schema
//	tenantctl db migrate
//
//	# Load countries, products, modules and features
//	tenantctl seed load catalog.yml
//
//	# Start the server
//	tenantctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AUDIT_DATABASE_URL: optional database for audit messages
//   - TENANT_CONFIG_PATH: directory holding tenant-config.yml
//   - TENANT_CONFIG_LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8000)
//   - BIND_ADDRESS: Server bind address (default: 0.0.0.0)
package main
