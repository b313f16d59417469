// Package eventdeck provides the Eventdeck events aggregator server.
//
// Eventdeck collects IT events (conferences, meetups, hackathons) into a
// single catalog with organizers, tags, city and country reference data and
// per-user bookmarks. The server exposes a REST API; eventdeckctl runs the
// server and provides the operational tooling around it.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: storage interfaces and their GORM implementation
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/auth: password hashing and access token issuance
//   - pkg/storage: S3-compatible object storage for event images
//   - pkg/worker: background worker pool
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//   - pkg/seed: reference data loading
//
// # Quick Start
//
// The server is run via the eventdeckctl CLI:
//
//	# Generate a token-signing secret
//	export SECRET_KEY="$(eventdeckctl secret-key generate)"
//
//	# Run database migrations
//	eventdeckctl db migrate
//
//	# Create the first administrator
//	eventdeckctl user create admin@admin.com --password admin_password --role admin
//
//	# Start the server
//	eventdeckctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - SECRET_KEY: secret used to sign API access tokens
//   - ACCESS_TOKEN_EXPIRE_MINUTES: access token lifetime (default: 30)
//   - S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY, S3_SECRET_KEY, S3_REGION: image storage
//   - WORKERS: background worker pool size (default: 2)
//   - EVENTDECK_AUDIT_ENABLED: toggle the audit trail (default: enabled)
//   - EVENTDECK_LOG_LEVEL: log level (debug also echoes SQL)
//   - PORT: server port (default: 8000)
//
// For more information, see https://github.com/eventdeckhq/eventdeck
package main
