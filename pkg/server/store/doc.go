// Package store provides storage abstractions for the blog server.
//
// This package defines interfaces for database and filesystem operations,
// allowing the services and endpoints to be decoupled from the specific
// storage implementation. Tests substitute testify mocks.
//
// # Available Stores
//
//   - UsersStore: account lookup, creation and role/activation changes
//   - BlogsStore: blog listing, CRUD and partial updates
//   - FilesStore: the upload directory
//   - HealthStore: database connectivity probe
//
// # Usage
//
//	users := gorm.NewUsersStore(db)
//	u, err := users.FindByUsername(ctx, "alice")
//	if err != nil {
//	    if errors.Is(err, store.ErrUserNotFound) {
//	        // Handle not found
//	    }
//	}
package store
