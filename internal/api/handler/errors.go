package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mcoot/linkplay/internal/api/apierr"
)

// maxBodyBytes caps JSON request bodies; every request type is a handful of short fields
const maxBodyBytes = 64 << 10

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeJSON reads the request body into v. Malformed or oversized bodies
// come back as invalid request errors.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}
