package user

import (
	"net/http"
	"strings"
)

// HeaderUserID carries the caller's identity. It is trusted as-is.
const HeaderUserID = "X-User-Id"

// ID returns the trimmed user id from the request header, or "".
func ID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderUserID))
}

// Resolve prefers the header identity and falls back to the id taken
// from the request body.
func Resolve(r *http.Request, fallback string) string {
	if id := ID(r); id != "" {
		return id
	}

	return strings.TrimSpace(fallback)
}
