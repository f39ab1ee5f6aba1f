// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
)

// The SPA was built against {"message": "..."} error bodies and
// {"errors": [{"field","message"}]} validation bodies; both shapes are
// preserved here.

// FieldError is a single validation failure, keyed by the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type messageBody struct {
	Message string `json:"message"`
}

type validationBody struct {
	Errors []FieldError `json:"errors"`
}

// Write serializes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a {"message": ...} body with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, messageBody{Message: message})
}

// ValidationError writes a 400 with the field-level error list.
func ValidationError(w http.ResponseWriter, errs []FieldError) {
	Write(w, http.StatusBadRequest, validationBody{Errors: errs})
}

// ServerError writes the generic 500 body. Internals go to the log at the
// call site, never to the caller.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Server error")
}

// MaxBodyBytes caps request bodies; event descriptions are the largest
// expected payload by far.
const MaxBodyBytes = 1 << 20

// Decode reads the request body into dst, rejecting unknown garbage sizes.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	return dec.Decode(dst)
}

// NoStore marks a response uncacheable so list views never serve stale
// membership counts.
func NoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}
