// Package respond writes the JSON envelope every endpoint answers with:
// {"code": <http status>, "message": "...", "data": ...}.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, code int, message string, data interface{}) {
	write(w, Envelope{Code: code, Message: message, Data: data})
}

// Error writes an error envelope with null data.
func Error(w http.ResponseWriter, code int, message string) {
	write(w, Envelope{Code: code, Message: message, Data: nil})
}

// Err maps err to its status and public message. Server-side failures are
// logged with their cause.
func Err(w http.ResponseWriter, log *zap.Logger, err error) {
	code := apperr.StatusOf(err)
	if code >= http.StatusInternalServerError && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	Error(w, code, apperr.PublicMessage(err))
}

func write(w http.ResponseWriter, env Envelope) {
	response, err := json.Marshal(env)
	if err != nil {
		env = Envelope{Code: http.StatusInternalServerError, Message: "internal server error"}
		response, _ = json.Marshal(env)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	_, _ = w.Write(response)
}
