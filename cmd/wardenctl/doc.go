// Package main implements wardenctl, the CLI for the warden multi-tenant
// authorization server.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/authz: role, hierarchy, permission, assignment and share engines
//   - pkg/permspec: permission string parsing and matching
//   - pkg/vault: encrypted secret storage
//   - pkg/store: storage interfaces and the gorm-backed implementation
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Generate a data key for secret encryption
//	export WARDEN_DATA_KEY="$(wardenctl data-key generate)"
//	export WARDEN_TOKEN_KEY="change-me"
//
//	# Run database migrations
//	wardenctl db migrate
//
//	# Start the server
//	wardenctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - WARDEN_DATA_KEY: Base64-encoded 256-bit key for secret encryption
//   - WARDEN_TOKEN_KEY: HMAC key for signing identity tokens
//   - WARDEN_CONFIG_PATH: Path to the YAML config file
//   - WARDEN_LOG_LEVEL: Log level (debug, info, warn, error)
package main
