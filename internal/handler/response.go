package handler

import (
	"encoding/json"
	"net/http"

	"github.com/confidenceman02/elm-exhibit/internal/outcome"
)

// sessionCookieMaxAge matches the durable session TTL in the store, so
// the cookie and the session expire together.
const sessionCookieMaxAge = 604800 // 7 days, in seconds

// statusFor maps a wire tag to its HTTP status. Tags not listed here are
// successes.
func statusFor(tag string) int {
	switch tag {
	case "MissingCookie", "MissingAuthorParam":
		return http.StatusBadRequest
	case "SessionNotFound", "RefreshFailed", "AuthorNotFound", "AuthorNotFoundWithElmLangPackages":
		return http.StatusNotFound
	case "LoginFailed", "KeineAhnung":
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

// writeBody serialises a tagged body with its mapped status. Cookie
// headers, if any, must be set before this call.
func writeBody(w http.ResponseWriter, body outcome.Body) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(body.ResponseTag()))
	_ = json.NewEncoder(w).Encode(body)
}

// setSessionCookie attaches the session id cookie. HttpOnly keeps it out
// of script reach; SameSite=Lax still sends it on the top-level redirect
// back from GitHub.
func setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// expireSessionCookie tells the browser to drop the session cookie.
func expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
