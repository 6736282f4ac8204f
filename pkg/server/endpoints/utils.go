package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/identity"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/respond"
)

// maxJSONBody bounds JSON request bodies
const maxJSONBody = 1 << 20

func respondWithError(w http.ResponseWriter, log *zap.Logger, err error) {
	respond.Err(w, log, err)
}

// clientIP renders the peer address for audit events
func clientIP(r *http.Request) string {
	if ip := middleware.RemoteIP(r); ip != nil {
		return ip.String()
	}
	return r.RemoteAddr
}

func respondWithJSON(w http.ResponseWriter, code int, message string, payload interface{}) {
	respond.JSON(w, code, message, payload)
}

// decodeJSON reads one JSON object into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is required")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return apperr.Validation("request body is not valid JSON")
		case errors.As(err, &typeErr):
			return apperr.Validation("%s has the wrong type", typeErr.Field)
		case errors.As(err, &maxErr):
			return apperr.Validation("request body is too large")
		default:
			// json reports unknown fields as `json: unknown field "x"`
			return apperr.Validation("invalid request body: %s", trimJSONPrefix(err.Error()))
		}
	}
	if dec.More() {
		return apperr.Validation("request body must contain a single JSON object")
	}
	return nil
}

func trimJSONPrefix(s string) string {
	const prefix = "json: "
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}

// callerID returns the authenticated user id. Handlers behind the
// authenticator always have one.
func callerID(r *http.Request) (string, error) {
	id, ok := identity.Get(r.Context())
	if !ok || id.UserID == "" {
		return "", apperr.Unauthorized("not logged in")
	}
	return id.UserID, nil
}

// callerIDOrEmpty is callerID for places that only record the caller
func callerIDOrEmpty(r *http.Request) string {
	id, _ := callerID(r)
	return id
}
