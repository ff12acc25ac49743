// Package shared holds helpers common to all HTTP handler groups.
package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mandalnilabja/goatplan/internal/types"
)

// MaxBodyBytes bounds request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONError writes the {"error", "message"} envelope.
func WriteJSONError(w http.ResponseWriter, title, message string, status int) {
	types.WriteError(w, status, types.NewAPIError(title, message))
}

// DecodeJSON decodes the request body into v. An empty body leaves v
// untouched and is accepted only when allowEmpty is set.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	return err
}
