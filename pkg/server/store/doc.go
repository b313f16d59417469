// Package store declares the persistence interfaces consumed by the
// eventdeck server endpoints.
//
// Endpoints only ever see these interfaces. The gorm subpackage carries
// the Postgres implementations, and the endpoint tests substitute
// testify mocks, so handler logic never depends on a live database.
//
// # Available Stores
//
//   - UsersStore: account creation and lookup
//   - EventsStore: event listing, filtering and admin mutations
//   - OrganizersStore: organizer listing and creation
//   - TagsStore: tag listing, creation and deletion
//   - BookmarksStore: per-user bookmark operations
//   - PlacesStore: city and country reference data
//   - AuditStore: event change history
//   - HealthStore: database reachability for the readiness probe
//
// # Usage
//
//	store := gorm.NewEventsStore(db)
//	event, err := store.EventByID(7)
//	if err != nil {
//	    if errors.Is(err, store.ErrEventNotFound) {
//	        // Handle not found
//	    }
//	}
package store
