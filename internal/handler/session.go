package handler

import (
	"log/slog"
	"net/http"

	"github.com/confidenceman02/elm-exhibit/internal/outcome"
	"github.com/confidenceman02/elm-exhibit/internal/service"
)

// SessionHandler serves the four session endpoints: grant, callback,
// refresh, destroy.
type SessionHandler struct {
	sessions *service.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// HandleGrant handles GET /api/session/grant.
//
// A request that already carries a live session gets SessionGranted
// straight back — no OAuth round trip — with the cookie refreshed.
// Otherwise a temp session is issued and the frontend is told to
// redirect to GitHub.
func (h *SessionHandler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := sessionIDFromRequest(r).Get(); ok {
		if session, ok := h.sessions.GetSession(r.Context(), sessionID).Get(); ok {
			setSessionCookie(w, session.SessionID)
			writeBody(w, outcome.NewSessionGranted(session))
			return
		}
	}

	grant, ok := h.sessions.IssueTempSession(r.Context(), resolveReferer(r)).Get()
	if !ok {
		writeBody(w, outcome.LoginFailed())
		return
	}

	writeBody(w, outcome.NewRedirecting(grant.AuthorizeURL))
}

// HandleCallback handles GET /api/session/callback — the URL GitHub
// redirects the browser to after authorization, carrying ?code and the
// ?state blob we minted at grant time.
func (h *SessionHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	stateBlob := r.URL.Query().Get("state")
	if code == "" || stateBlob == "" {
		h.logger.Warn("callback request missing code or state")
		writeBody(w, outcome.NoIdea())
		return
	}

	session, ok := h.sessions.CompleteOAuthCallback(r.Context(), code, stateBlob).Get()
	if !ok {
		writeBody(w, outcome.LoginFailed())
		return
	}

	setSessionCookie(w, session.SessionID)
	writeBody(w, outcome.NewSessionGranted(session))
}

// HandleRefresh handles GET /api/session/refresh: re-validate the cookie
// session without touching GitHub. Both a missing cookie and a dead
// session answer RefreshFailed — the frontend reacts the same way to
// either.
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(r).Get()
	if !ok {
		writeBody(w, outcome.RefreshFailed())
		return
	}

	session, ok := h.sessions.GetSession(r.Context(), sessionID).Get()
	if !ok {
		writeBody(w, outcome.RefreshFailed())
		return
	}

	writeBody(w, outcome.NewSessionRefreshed(session))
}

// HandleDestroy handles POST /api/session/destroy. Unlike refresh, the
// error answers here distinguish a missing cookie (the frontend called
// logout without being logged in) from a session that was already gone.
func (h *SessionHandler) HandleDestroy(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(r).Get()
	if !ok {
		writeBody(w, outcome.MissingCookie())
		return
	}

	if h.sessions.GetSession(r.Context(), sessionID).IsErr() {
		writeBody(w, outcome.SessionNotFound())
		return
	}

	if !h.sessions.DestroySession(r.Context(), sessionID) {
		writeBody(w, outcome.SessionNotFound())
		return
	}

	expireSessionCookie(w)
	writeBody(w, outcome.NewSessionDestroyed())
}
