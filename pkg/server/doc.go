// Package server provides the HTTP server for the eventdeck API.
//
// This package implements the core HTTP server that handles all eventdeck
// REST API requests. It uses gorilla/mux for routing and provides middleware
// for authentication and request handling.
//
// # Server Setup
//
//	srv := server.NewServer(db, cfg, stores, tokens, objects, pool, "0.0.0.0", "8000")
//	endpoints.RegisterEndpoints(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: database connection
//   - Config: resolved runtime configuration
//   - Stores: storage interfaces the endpoints depend on
//   - Tokens: JWT issue/verify service
//   - Storage: object storage for event images
//   - Pool: background worker pool
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterEndpoints(srv)
//
// This registers all API endpoints including:
//
//   - /api/v1/auth/register, /api/v1/auth/login, /api/v1/auth/me - accounts
//   - /api/v1/events, /api/v1/event/{event_id} - event listing and management
//   - /api/v1/organizers - organizer listing and creation
//   - /api/v1/tags - tag management
//   - /api/v1/bookmarks/{event_id} - per-user bookmarks
//   - /api/v1/cities, /api/v1/countries - reference data
//   - /api/v1/audit - event change history
package server
