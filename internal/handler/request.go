// Package handler implements the HTTP endpoints: it parses requests,
// calls the services, and shapes every reply as a tagged JSON body with
// the matching status code and cookie headers.
package handler

import (
	"net/http"

	"github.com/confidenceman02/elm-exhibit/internal/result"
)

// sessionCookieName is the cookie carrying the opaque session id. The
// name is a wire contract with the frontend.
const sessionCookieName = "session_id"

// defaultReferer is where to send the browser back to after login when
// the request carried no Referer header (local development).
const defaultReferer = "http://localhost:8888"

// sessionIDFromRequest extracts the session id from the request cookie.
// An absent cookie and a cookie with an empty value are the same thing:
// no session id.
func sessionIDFromRequest(r *http.Request) result.Result[string] {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return result.Err[string]()
	}
	return result.Ok(cookie.Value)
}

// resolveReferer returns the page to return the browser to after the
// OAuth round trip.
func resolveReferer(r *http.Request) string {
	if referer := r.Referer(); referer != "" {
		return referer
	}
	return defaultReferer
}
