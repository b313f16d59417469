// Package config provides configuration management for eventdeck.
//
// This package handles loading and validating server configuration from
// environment variables and an optional YAML configuration file, tracking
// the source of every attribute.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary)
//   - /etc/eventdeck/config/eventdeck.yml (EVENTDECK_CONFIG_PATH overrides)
//
// # Key Configuration Options
//
//   - DATABASE_URL: Database connection
//   - SECRET_KEY: HMAC key for access tokens
//   - ACCESS_TOKEN_EXPIRE_MINUTES: Token lifetime
//   - S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY, S3_SECRET_KEY, S3_REGION,
//     S3_PUBLIC_BASE: Image storage
//   - WORKERS: Background worker count
//   - EVENTDECK_LOG_LEVEL: Logging verbosity
//   - PORT: Server listen port
package config
