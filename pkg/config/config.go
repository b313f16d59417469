package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/eventdeck/config"
	ConfigFileName    = "eventdeck.yml"

	// DefaultSecretKey is the development fallback for SECRET_KEY. The server
	// warns loudly when it is in effect.
	DefaultSecretKey = "change-me-in-production"
)

// ValidLogLevels is the list of accepted log_level values
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// EventdeckConfig holds all eventdeck configuration settings
type EventdeckConfig struct {
	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// SecretKey signs API access tokens (HS256)
	SecretKey string `yaml:"secret_key" json:"secret_key"`

	// AccessTokenExpireMinutes is the access token lifetime in minutes
	AccessTokenExpireMinutes int `yaml:"access_token_expire_minutes" json:"access_token_expire_minutes"`

	// S3Endpoint is the S3-compatible endpoint for image storage
	S3Endpoint string `yaml:"s3_endpoint" json:"s3_endpoint"`

	// S3Bucket is the bucket holding uploaded event images
	S3Bucket string `yaml:"s3_bucket" json:"s3_bucket"`

	// S3AccessKey and S3SecretKey are the storage credentials
	S3AccessKey string `yaml:"s3_access_key" json:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key" json:"s3_secret_key"`

	// S3Region is the storage region
	S3Region string `yaml:"s3_region" json:"s3_region"`

	// S3PublicBase, when set, is joined with object keys instead of presigning
	S3PublicBase string `yaml:"s3_public_base" json:"s3_public_base"`

	// Workers is the size of the background worker pool
	Workers int `yaml:"workers" json:"workers"`

	// AuditEnabled toggles the operational audit trail
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// AuditDatabaseURL routes audit messages to a separate database.
	// When empty, messages go to the main database.
	AuditDatabaseURL string `yaml:"audit_database_url" json:"audit_database_url"`

	// LogLevel is the logging verbosity (debug also echoes SQL)
	LogLevel string `yaml:"log_level" json:"log_level"`

	// CORSAllowedOrigins is the list of origins allowed by the CORS layer
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

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
	globalConfig *EventdeckConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *EventdeckConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	// Load config
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

// newDefault returns a config with default values
func newDefault() *EventdeckConfig {
	return &EventdeckConfig{
		DatabaseURL:              "",
		SecretKey:                DefaultSecretKey,
		AccessTokenExpireMinutes: 60,
		S3Region:                 "eu-central-1",
		Workers:                  2,
		AuditEnabled:             true,
		LogLevel:                 "info",
		CORSAllowedOrigins:       []string{"*"},
		sources:                  make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*EventdeckConfig, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("EVENTDECK_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig EventdeckConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"database_url", "secret_key", "access_token_expire_minutes",
		"s3_endpoint", "s3_bucket", "s3_access_key", "s3_secret_key",
		"s3_region", "s3_public_base", "workers", "audit_enabled",
		"audit_database_url", "log_level", "cors_allowed_origins",
	}
}

// secretAttributes are never rendered; their values show up as (redacted)
var secretAttributes = map[string]bool{
	"database_url":       true,
	"secret_key":         true,
	"s3_secret_key":      true,
	"audit_database_url": true,
}

func (c *EventdeckConfig) applyFileConfig(file *EventdeckConfig) {
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.SecretKey != "" {
		c.SecretKey = file.SecretKey
		c.sources["secret_key"] = "file"
	}
	if file.AccessTokenExpireMinutes != 0 {
		c.AccessTokenExpireMinutes = file.AccessTokenExpireMinutes
		c.sources["access_token_expire_minutes"] = "file"
	}
	if file.S3Endpoint != "" {
		c.S3Endpoint = file.S3Endpoint
		c.sources["s3_endpoint"] = "file"
	}
	if file.S3Bucket != "" {
		c.S3Bucket = file.S3Bucket
		c.sources["s3_bucket"] = "file"
	}
	if file.S3AccessKey != "" {
		c.S3AccessKey = file.S3AccessKey
		c.sources["s3_access_key"] = "file"
	}
	if file.S3SecretKey != "" {
		c.S3SecretKey = file.S3SecretKey
		c.sources["s3_secret_key"] = "file"
	}
	if file.S3Region != "" {
		c.S3Region = file.S3Region
		c.sources["s3_region"] = "file"
	}
	if file.S3PublicBase != "" {
		c.S3PublicBase = file.S3PublicBase
		c.sources["s3_public_base"] = "file"
	}
	if file.Workers != 0 {
		c.Workers = file.Workers
		c.sources["workers"] = "file"
	}
	if file.AuditDatabaseURL != "" {
		c.AuditDatabaseURL = file.AuditDatabaseURL
		c.sources["audit_database_url"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = "file"
	}
}

func (c *EventdeckConfig) applyEnvConfig() {
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("SECRET_KEY"); val != "" {
		c.SecretKey = val
		c.sources["secret_key"] = "environment"
	}
	if val := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AccessTokenExpireMinutes = i
			c.sources["access_token_expire_minutes"] = "environment"
		}
	}
	if val := os.Getenv("S3_ENDPOINT"); val != "" {
		c.S3Endpoint = val
		c.sources["s3_endpoint"] = "environment"
	}
	if val := os.Getenv("S3_BUCKET"); val != "" {
		c.S3Bucket = val
		c.sources["s3_bucket"] = "environment"
	}
	if val := os.Getenv("S3_ACCESS_KEY"); val != "" {
		c.S3AccessKey = val
		c.sources["s3_access_key"] = "environment"
	}
	if val := os.Getenv("S3_SECRET_KEY"); val != "" {
		c.S3SecretKey = val
		c.sources["s3_secret_key"] = "environment"
	}
	if val := os.Getenv("S3_REGION"); val != "" {
		c.S3Region = val
		c.sources["s3_region"] = "environment"
	}
	if val := os.Getenv("S3_PUBLIC_BASE"); val != "" {
		c.S3PublicBase = val
		c.sources["s3_public_base"] = "environment"
	}
	if val := os.Getenv("WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Workers = i
			c.sources["workers"] = "environment"
		}
	}
	if val := os.Getenv("EVENTDECK_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("AUDIT_DATABASE_URL"); val != "" {
		c.AuditDatabaseURL = val
		c.sources["audit_database_url"] = "environment"
	}
	if val := os.Getenv("EVENTDECK_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("EVENTDECK_CORS_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *EventdeckConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *EventdeckConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenTTL returns the access token lifetime as a duration
func (c *EventdeckConfig) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// IsDefaultSecretKey reports whether the development fallback key is in effect
func (c *EventdeckConfig) IsDefaultSecretKey() bool {
	return c.SecretKey == DefaultSecretKey
}

// IsStorageConfigured reports whether image storage can be used
func (c *EventdeckConfig) IsStorageConfigured() bool {
	return c.S3Bucket != ""
}

// Validate validates the configuration
func (c *EventdeckConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	if c.AccessTokenExpireMinutes < 1 {
		return fmt.Errorf("access_token_expire_minutes must be at least 1, got %d", c.AccessTokenExpireMinutes)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.LogLevel == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	// Storage credentials must come as a set
	if c.S3Bucket != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("s3_bucket is set but s3_access_key or s3_secret_key is missing")
	}

	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("cors_allowed_origins must not be empty")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. Secret values are redacted.
func (c *EventdeckConfig) Attributes() []Attribute {
	attrs := []Attribute{
		{Name: "database_url", Value: c.DatabaseURL, Source: c.Source("database_url")},
		{Name: "secret_key", Value: c.SecretKey, Source: c.Source("secret_key")},
		{Name: "access_token_expire_minutes", Value: strconv.Itoa(c.AccessTokenExpireMinutes), Source: c.Source("access_token_expire_minutes")},
		{Name: "s3_endpoint", Value: c.S3Endpoint, Source: c.Source("s3_endpoint")},
		{Name: "s3_bucket", Value: c.S3Bucket, Source: c.Source("s3_bucket")},
		{Name: "s3_access_key", Value: c.S3AccessKey, Source: c.Source("s3_access_key")},
		{Name: "s3_secret_key", Value: c.S3SecretKey, Source: c.Source("s3_secret_key")},
		{Name: "s3_region", Value: c.S3Region, Source: c.Source("s3_region")},
		{Name: "s3_public_base", Value: c.S3PublicBase, Source: c.Source("s3_public_base")},
		{Name: "workers", Value: strconv.Itoa(c.Workers), Source: c.Source("workers")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "audit_database_url", Value: c.AuditDatabaseURL, Source: c.Source("audit_database_url")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
	}

	for i, attr := range attrs {
		if secretAttributes[attr.Name] && attr.Value != "" {
			attrs[i].Value = "(redacted)"
		}
	}
	return attrs
}

// FormatText returns a text representation of the configuration
func (c *EventdeckConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *EventdeckConfig) FormatJSON() (string, error) {
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
