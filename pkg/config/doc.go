// Package config provides configuration management for tenant-config.
//
// Configuration is read from a YAML file, an optional .env file and
// environment variables. Environment variables win over the file, and every
// attribute remembers where its value came from.
//
// # Configuration Sources
//
//   - $TENANT_CONFIG_PATH/tenant-config.yml (default /etc/tenant-config)
//   - .env in the working directory
//   - TENANT_CONFIG_* environment variables
//
// # Key Configuration Options
//
//   - TENANT_CONFIG_MODULE_SEQUENCES: module display order, "1:10,3:20,..."
//   - TENANT_CONFIG_LOG_LEVEL: debug, info, warn or error
//   - TENANT_CONFIG_ENV: development, production or test
//   - TENANT_CONFIG_DEFAULT_CREATED_BY: label for rows written by the system
//   - DATABASE_URL: database connection (read by package db)
//
// # Hot Reload
//
// Watch reloads the file on change. The server uses it to refresh the
// module sequence map without a restart:
//
//	go config.Watch(ctx, cfg.ConfigFilePath(), func(c *config.TenantConfig, err error) {
//	    ...
//	})
package config
