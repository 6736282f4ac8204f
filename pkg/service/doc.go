// Package service implements the business rules of the blog server.
//
// Services take decoded request input, validate it, talk to the stores in
// pkg/server/store and return either a result or an *apperr.Error whose
// Kind decides the HTTP status. They never touch http types.
package service
