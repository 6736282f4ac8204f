package endpoints

import (
	"github.com/doodlesbykumbi/blog-in-go/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAppEndpoints(srv)
	RegisterUserEndpoints(srv)
	RegisterBlogEndpoints(srv)
	RegisterFileEndpoints(srv)

	// Stored uploads
	RegisterUploadsEndpoint(srv)
}
