package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/tenant-config"
	ConfigFileName    = "tenant-config.yml"

	// UnsequencedWeight is the display weight of modules missing from the
	// sequence map.
	UnsequencedWeight = 9999
)

// ValidEnvironments is the list of environments the logger understands
var ValidEnvironments = []string{"development", "production", "test"}

// ValidLogLevels is the list of accepted log_level values
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// DefaultModuleSequences orders modules for display.
func DefaultModuleSequences() map[uint]int {
	return map[uint]int{1: 10, 3: 20, 2: 30, 9: 40, 5: 50, 4: 60, 8: 70}
}

// TenantConfig holds all tenant-config settings
type TenantConfig struct {
	// ModuleSequences maps module id to display weight
	ModuleSequences map[uint]int `yaml:"module_sequences" json:"module_sequences"`

	LogLevel    string `yaml:"log_level" json:"log_level"`
	Environment string `yaml:"environment" json:"environment"`
	ServiceName string `yaml:"service_name" json:"service_name"`

	// DefaultCreatedBy labels rows written without an explicit creator
	DefaultCreatedBy string `yaml:"default_created_by" json:"default_created_by"`

	DBMaxIdleConns    int           `yaml:"db_max_idle_conns" json:"db_max_idle_conns"`
	DBMaxOpenConns    int           `yaml:"db_max_open_conns" json:"db_max_open_conns"`
	DBConnMaxLifetime time.Duration `yaml:"db_conn_max_lifetime" json:"db_conn_max_lifetime"`

	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`

	MetricsEnabled *bool `yaml:"metrics_enabled" json:"metrics_enabled"`
	AuditEnabled   *bool `yaml:"audit_enabled" json:"audit_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *TenantConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *TenantConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// Set replaces the global configuration.
func Set(cfg *TenantConfig) {
	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
}

func newDefault() *TenantConfig {
	enabled := true
	auditEnabled := true
	return &TenantConfig{
		ModuleSequences:   DefaultModuleSequences(),
		LogLevel:          "info",
		Environment:       "development",
		ServiceName:       "tenant-config",
		DefaultCreatedBy:  "System",
		DBMaxIdleConns:    10,
		DBMaxOpenConns:    50,
		DBConnMaxLifetime: time.Hour,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		MetricsEnabled:    &enabled,
		AuditEnabled:      &auditEnabled,
		sources:           make(map[string]string),
	}
}

// Default returns a configuration holding only default values.
func Default() *TenantConfig {
	cfg := newDefault()
	for _, name := range attributeNames() {
		cfg.sources[name] = "default"
	}
	return cfg
}

// Load loads configuration from file, .env and environment variables.
// Environment variables take precedence over file values.
func Load() (*TenantConfig, error) {
	// A missing .env is fine; existing variables are never overwritten
	_ = godotenv.Load()

	config := Default()

	configPath := getEnv("TENANT_CONFIG_PATH", DefaultConfigPath)
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig TenantConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"module_sequences", "log_level", "environment", "service_name",
		"default_created_by", "db_max_idle_conns", "db_max_open_conns",
		"db_conn_max_lifetime", "read_timeout", "write_timeout",
		"metrics_enabled", "audit_enabled",
	}
}

func (c *TenantConfig) applyFileConfig(file *TenantConfig) {
	if len(file.ModuleSequences) > 0 {
		c.ModuleSequences = file.ModuleSequences
		c.sources["module_sequences"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.Environment != "" {
		c.Environment = file.Environment
		c.sources["environment"] = "file"
	}
	if file.ServiceName != "" {
		c.ServiceName = file.ServiceName
		c.sources["service_name"] = "file"
	}
	if file.DefaultCreatedBy != "" {
		c.DefaultCreatedBy = file.DefaultCreatedBy
		c.sources["default_created_by"] = "file"
	}
	if file.DBMaxIdleConns != 0 {
		c.DBMaxIdleConns = file.DBMaxIdleConns
		c.sources["db_max_idle_conns"] = "file"
	}
	if file.DBMaxOpenConns != 0 {
		c.DBMaxOpenConns = file.DBMaxOpenConns
		c.sources["db_max_open_conns"] = "file"
	}
	if file.DBConnMaxLifetime != 0 {
		c.DBConnMaxLifetime = file.DBConnMaxLifetime
		c.sources["db_conn_max_lifetime"] = "file"
	}
	if file.ReadTimeout != 0 {
		c.ReadTimeout = file.ReadTimeout
		c.sources["read_timeout"] = "file"
	}
	if file.WriteTimeout != 0 {
		c.WriteTimeout = file.WriteTimeout
		c.sources["write_timeout"] = "file"
	}
	if file.MetricsEnabled != nil {
		c.MetricsEnabled = file.MetricsEnabled
		c.sources["metrics_enabled"] = "file"
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = file.AuditEnabled
		c.sources["audit_enabled"] = "file"
	}
}

func (c *TenantConfig) applyEnvConfig() error {
	if val, ok := os.LookupEnv("TENANT_CONFIG_MODULE_SEQUENCES"); ok && val != "" {
		seq, err := ParseModuleSequences(val)
		if err != nil {
			return fmt.Errorf("TENANT_CONFIG_MODULE_SEQUENCES: %w", err)
		}
		c.ModuleSequences = seq
		c.sources["module_sequences"] = "environment"
	}
	c.envString("TENANT_CONFIG_LOG_LEVEL", "log_level", &c.LogLevel)
	c.envString("TENANT_CONFIG_ENV", "environment", &c.Environment)
	c.envString("TENANT_CONFIG_SERVICE_NAME", "service_name", &c.ServiceName)
	c.envString("TENANT_CONFIG_DEFAULT_CREATED_BY", "default_created_by", &c.DefaultCreatedBy)
	c.envInt("TENANT_CONFIG_DB_MAX_IDLE_CONNS", "db_max_idle_conns", &c.DBMaxIdleConns)
	c.envInt("TENANT_CONFIG_DB_MAX_OPEN_CONNS", "db_max_open_conns", &c.DBMaxOpenConns)
	c.envDuration("TENANT_CONFIG_DB_CONN_MAX_LIFETIME", "db_conn_max_lifetime", &c.DBConnMaxLifetime)
	c.envDuration("TENANT_CONFIG_READ_TIMEOUT", "read_timeout", &c.ReadTimeout)
	c.envDuration("TENANT_CONFIG_WRITE_TIMEOUT", "write_timeout", &c.WriteTimeout)
	c.envBool("TENANT_CONFIG_METRICS_ENABLED", "metrics_enabled", &c.MetricsEnabled)
	c.envBool("TENANT_CONFIG_AUDIT_ENABLED", "audit_enabled", &c.AuditEnabled)
	return nil
}

func (c *TenantConfig) envString(key, name string, dst *string) {
	if val := getEnv(key, ""); val != "" {
		*dst = val
		c.sources[name] = "environment"
	}
}

func (c *TenantConfig) envInt(key, name string, dst *int) {
	if _, ok := os.LookupEnv(key); ok {
		*dst = getEnvAsInt(key, *dst)
		c.sources[name] = "environment"
	}
}

func (c *TenantConfig) envDuration(key, name string, dst *time.Duration) {
	if _, ok := os.LookupEnv(key); ok {
		*dst = getEnvAsDuration(key, *dst)
		c.sources[name] = "environment"
	}
}

func (c *TenantConfig) envBool(key, name string, dst **bool) {
	if val := getEnv(key, ""); val != "" {
		b := val == "true" || val == "1"
		*dst = &b
		c.sources[name] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *TenantConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *TenantConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsMetricsEnabled reports whether /metrics and the metrics middleware are on.
func (c *TenantConfig) IsMetricsEnabled() bool {
	return c.MetricsEnabled == nil || *c.MetricsEnabled
}

// IsAuditEnabled reports whether configuration changes are audited.
func (c *TenantConfig) IsAuditEnabled() bool {
	return c.AuditEnabled == nil || *c.AuditEnabled
}

// Validate validates the configuration
func (c *TenantConfig) Validate() error {
	if !contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if !contains(ValidEnvironments, c.Environment) {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}
	if c.DefaultCreatedBy == "" {
		return fmt.Errorf("default_created_by must not be empty")
	}
	if len(c.DefaultCreatedBy) > 50 {
		return fmt.Errorf("default_created_by must be at most 50 characters")
	}
	if c.DBMaxIdleConns < 0 || c.DBMaxOpenConns < 0 {
		return fmt.Errorf("db pool sizes must not be negative")
	}
	if c.DBMaxOpenConns > 0 && c.DBMaxIdleConns > c.DBMaxOpenConns {
		return fmt.Errorf("db_max_idle_conns (%d) exceeds db_max_open_conns (%d)", c.DBMaxIdleConns, c.DBMaxOpenConns)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("read_timeout and write_timeout must be positive")
	}
	for id := range c.ModuleSequences {
		if id == 0 {
			return fmt.Errorf("module_sequences: module id must be positive")
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *TenantConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "module_sequences", Value: FormatModuleSequences(c.ModuleSequences), Source: c.Source("module_sequences")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "environment", Value: c.Environment, Source: c.Source("environment")},
		{Name: "service_name", Value: c.ServiceName, Source: c.Source("service_name")},
		{Name: "default_created_by", Value: c.DefaultCreatedBy, Source: c.Source("default_created_by")},
		{Name: "db_max_idle_conns", Value: strconv.Itoa(c.DBMaxIdleConns), Source: c.Source("db_max_idle_conns")},
		{Name: "db_max_open_conns", Value: strconv.Itoa(c.DBMaxOpenConns), Source: c.Source("db_max_open_conns")},
		{Name: "db_conn_max_lifetime", Value: c.DBConnMaxLifetime.String(), Source: c.Source("db_conn_max_lifetime")},
		{Name: "read_timeout", Value: c.ReadTimeout.String(), Source: c.Source("read_timeout")},
		{Name: "write_timeout", Value: c.WriteTimeout.String(), Source: c.Source("write_timeout")},
		{Name: "metrics_enabled", Value: strconv.FormatBool(c.IsMetricsEnabled()), Source: c.Source("metrics_enabled")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.IsAuditEnabled()), Source: c.Source("audit_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *TenantConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *TenantConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseModuleSequences parses "1:10,3:20" into a sequence map.
func ParseModuleSequences(s string) (map[uint]int, error) {
	seq := make(map[uint]int)
	for _, pair := range splitAndTrim(s) {
		id, weight, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid module sequence %q, expected <module_id>:<weight>", pair)
		}
		moduleID, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
		if err != nil || moduleID == 0 {
			return nil, fmt.Errorf("invalid module id in %q", pair)
		}
		w, err := strconv.Atoi(strings.TrimSpace(weight))
		if err != nil {
			return nil, fmt.Errorf("invalid weight in %q", pair)
		}
		seq[uint(moduleID)] = w
	}
	return seq, nil
}

// FormatModuleSequences renders a sequence map ordered by weight.
func FormatModuleSequences(seq map[uint]int) string {
	ids := make([]uint, 0, len(seq))
	for id := range seq {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if seq[ids[i]] != seq[ids[j]] {
			return seq[ids[i]] < seq[ids[j]]
		}
		return ids[i] < ids[j]
	})
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d:%d", id, seq[id])
	}
	return strings.Join(parts, ",")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
