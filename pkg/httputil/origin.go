package httputil

import (
	"net/http"
	"net/url"
)

// SameOrigin reports whether the request's Origin header names the host the
// request was sent to.
func SameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host != "" && u.Host == r.Host
}
