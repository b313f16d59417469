package endpoints

import (
	"github.com/eventdeckhq/eventdeck/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(s *server.Server) {
	RegisterStatusEndpoints(s)
	RegisterAuthEndpoints(s)
	RegisterEventsEndpoints(s)
	RegisterBookmarksEndpoints(s)
	RegisterOrganizersEndpoints(s)
	RegisterTagsEndpoints(s)
	RegisterPlacesEndpoints(s)
	RegisterAuditEndpoints(s)
}
