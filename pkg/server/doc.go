// Package server provides the HTTP server of the blog API.
//
// The Server struct holds the configuration, the storage backends, the
// services built over them and the router. It uses gorilla/mux for routing
// and gorilla/handlers for CORS, panic recovery and access logging.
//
// # Server Setup
//
//	srv, err := server.NewServer(cfg, log, db, server.Stores{...})
//	if err != nil {
//	    return err
//	}
//	endpoints.RegisterAll(srv)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - /user/* - registration, login, password reset, profile
//   - /blog/* - blog listing and editing, role gated
//   - /file/* - uploads and their management
//   - /uploads/{name} - stored files
//   - /, /health, /metrics - system information
package server
