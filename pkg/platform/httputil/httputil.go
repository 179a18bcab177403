// Package httputil centralizes JSON response and request-body helpers so
// handlers and guard middleware emit a consistent envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Detail is a machine-readable note inside an error body, optionally naming
// the offending field.
type Detail struct {
	Field string `json:"field,omitempty"`
	Issue string `json:"issue"`
}

// ErrorBody is the error envelope shared by the webhook handler and the
// guard middleware: {error: <category>, message, details?}.
type ErrorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []Detail `json:"details,omitempty"`
}

// WriteJSON encodes v with the given status. Encoding failures are swallowed:
// the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteErrorBody emits the standard error envelope.
func WriteErrorBody(w http.ResponseWriter, status int, category, message string, details ...Detail) {
	WriteJSON(w, status, ErrorBody{Error: category, Message: message, Details: details})
}

// maxBodyBytes caps webhook request bodies; provider payloads are small and
// an unbounded read is an easy DoS vector.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst, rejecting oversized bodies.
func DecodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	return nil
}
