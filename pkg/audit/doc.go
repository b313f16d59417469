// Package audit provides audit logging for eventdeck operations.
//
// This package implements structured audit logging for security-relevant
// operations such as authentication attempts, account registration and
// administrative changes to events, organizers and tags.
//
// # Event Types
//
//   - Authentication events (success/failure)
//   - Registration events
//   - Resource change events (create/update/delete)
//   - Bookmark events
//   - Password change events
//
// # Usage
//
//	audit.Log(audit.AuthenticateEvent{
//	    Email:    email,
//	    ClientIP: ip,
//	    Success:  true,
//	})
//
// Events are written to stdout in RFC5424 syslog format and persisted to
// the messages table of the application database. Setting
// audit_database_url (or AUDIT_DATABASE_URL) routes them to a separate
// database instead.
package audit
