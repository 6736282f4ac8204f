// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Ids that are not UUIDs are reported as not found before reaching the
// database, since postgres rejects them as uuid input.
package gorm
