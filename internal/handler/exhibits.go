package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/outcome"
	"github.com/confidenceman02/elm-exhibit/internal/service"
)

// ExhibitHandler serves the author-exhibits lookup and authenticated
// exhibit creation.
type ExhibitHandler struct {
	exhibits *service.ExhibitService
	sessions *service.SessionService
	logger   *slog.Logger
}

// NewExhibitHandler creates an ExhibitHandler.
func NewExhibitHandler(exhibits *service.ExhibitService, sessions *service.SessionService, logger *slog.Logger) *ExhibitHandler {
	return &ExhibitHandler{exhibits: exhibits, sessions: sessions, logger: logger}
}

// HandleAuthorExhibits handles GET /api/author/exhibits?author=<name>.
// The service decides between the three author outcomes; this layer only
// validates the parameter.
func (h *ExhibitHandler) HandleAuthorExhibits(w http.ResponseWriter, r *http.Request) {
	author := r.URL.Query().Get("author")
	if author == "" {
		writeBody(w, outcome.MissingAuthorParam())
		return
	}

	writeBody(w, h.exhibits.AuthorExhibits(r.Context(), author))
}

// createExhibitRequest is the POST /api/exhibits body.
type createExhibitRequest struct {
	Name string `json:"name"`
}

// HandleCreateExhibit handles POST /api/exhibits. The caller must hold a
// live session; the exhibit is recorded against that session's user.
func (h *ExhibitHandler) HandleCreateExhibit(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromRequest(r).Get()
	if !ok {
		writeBody(w, outcome.MissingCookie())
		return
	}

	session, ok := h.sessions.GetSession(r.Context(), sessionID).Get()
	if !ok {
		writeBody(w, outcome.SessionNotFound())
		return
	}

	var req createExhibitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		h.logger.Warn("exhibit creation rejected: bad request body")
		writeBody(w, outcome.NoIdea())
		return
	}

	if !h.exhibits.CreateExhibit(r.Context(), session, req.Name) {
		writeBody(w, outcome.NoIdea())
		return
	}

	writeBody(w, outcome.NewExhibitCreated(model.Exhibit{Name: req.Name}))
}
