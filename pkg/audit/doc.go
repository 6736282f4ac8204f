// Package audit records security-relevant operations of the blog backend.
//
// Events are written as RFC5424 syslog lines to DefaultLogger and, when
// AUDIT_DATABASE_URL is set, persisted to the audit_messages table.
//
// # Event Types
//
//   - Login attempts and registrations
//   - Password resets
//   - Permission denials
//   - Blog and file changes
//   - Account changes made with blogctl
//
// # Usage
//
//	audit.Log(audit.AuthenticateEvent{
//		Username: "alice",
//		ClientIP: "10.0.0.1",
//		Success:  true,
//	})
//
// Auditing is off unless BLOG_AUDIT_ENABLED=true or SetEnabled(true).
package audit
