// Package model defines the database models for eventdeck.
//
// This package contains GORM models that map to the eventdeck PostgreSQL
// schema created by db/migrations.
//
// # Core Models
//
//   - Country, City: reference geography for offline events
//   - Organizer: entities that host events
//   - Tag: free-form event categorization
//   - User: accounts with bcrypt password hashes and a Role
//   - Event: aggregated event listings, tagged via event_tags
//   - Bookmark: per-user saved events
//   - EventAuditLog: field-level change history for events
//
// # Database Schema
//
// The database uses PostgreSQL with the following key tables:
//
//   - countries, cities: geography
//   - organizers: event hosts
//   - tags, event_tags: categorization
//   - users: accounts
//   - events: listings
//   - bookmarks: saved events per user
//   - event_audit_log: change history
//   - messages: operational audit sink (see pkg/audit)
package model
