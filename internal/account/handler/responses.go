package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "github.com/l31-dev/Autha/pkg/domain-errors"
)

// envelope is the JSON error/status shape shared by every account endpoint.
type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// writeError centralizes domain error translation to HTTP responses so every
// endpoint produces the same envelopes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var de *dErrors.Error
	if errors.As(err, &de) {
		switch de.Code {
		case dErrors.CodeNotFound:
			status = http.StatusNotFound
			message = "Unknown user"
		case dErrors.CodeValidation, dErrors.CodeNotImplemented:
			status = http.StatusBadRequest
			message = de.Message
		case dErrors.CodeSuspended:
			status = http.StatusForbidden
			message = de.Message
		case dErrors.CodeUnauthorized:
			status = http.StatusUnauthorized
			message = de.Message
		}
	}

	writeJSON(w, status, envelope{Error: true, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
