// Package model defines the database models for the blog backend.
//
// This package contains GORM models that map to the schema created by the
// versioned migrations in db/migrations.
//
// # Core Models
//
//   - User: accounts with a hashed password, a role level and an active flag
//   - Blog: posts written by a user, with a publication status
//
// # Database Schema
//
//   - users: one row per account, username is unique
//   - blogs: one row per post, author_id references users.id
//
// Primary keys are UUID strings assigned in BeforeCreate so that the models
// behave the same on PostgreSQL and on the in-memory SQLite databases used by
// the store tests.
package model
