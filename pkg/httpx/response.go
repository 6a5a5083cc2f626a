package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes v as the JSON response body with the given status.
// Cache headers are the caller's business; token and error payloads must
// also call NoCache.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache marks the response as uncacheable. RFC 6749 requires it on any
// response carrying tokens or credentials.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
