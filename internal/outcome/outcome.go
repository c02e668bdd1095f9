// Package outcome defines the tagged response bodies the API speaks.
//
// Every request ends in exactly one tagged outcome — success or error —
// and the HTTP layer maps each tag to a status code and, for the session
// tags, cookie headers. The tag strings are a wire contract with the
// frontend; do not rename them.
//
// ERROR TAXONOMY:
//   - input errors     → MissingCookie, MissingAuthorParam (400)
//   - not-found errors → SessionNotFound, AuthorNotFound, RefreshFailed (404)
//   - upstream errors  → LoginFailed (500)
//   - unclassified     → KeineAhnung (500)
package outcome

import "github.com/confidenceman02/elm-exhibit/internal/model"

// Body is a tagged response body. ResponseTag returns the wire tag,
// e.g. "SessionGranted".
type Body interface {
	ResponseTag() string
}

// --- success bodies ---------------------------------------------------------

// Redirecting tells the frontend to send the browser to the GitHub
// authorization page.
type Redirecting struct {
	Tag      string `json:"tag"`
	Location string `json:"location"`
}

// SessionGranted carries the freshly established (or still valid) session.
// The HTTP layer accompanies it with a session_id cookie.
type SessionGranted struct {
	Tag     string            `json:"tag"`
	Session model.UserSession `json:"session"`
}

// SessionRefreshed carries the session looked up for an existing cookie.
type SessionRefreshed struct {
	Tag     string            `json:"tag"`
	Session model.UserSession `json:"session"`
}

// SessionDestroyed acknowledges a logout. The HTTP layer accompanies it
// with an expiring session_id cookie.
type SessionDestroyed struct {
	Tag string `json:"tag"`
}

// AuthorExhibitsFetched carries an author's exhibit references. An empty
// list is a valid success — the author exists but has no exhibits.
type AuthorExhibitsFetched struct {
	Tag      string   `json:"tag"`
	Exhibits []string `json:"exhibits"`
}

// ExhibitCreated acknowledges a newly created exhibit reference.
type ExhibitCreated struct {
	Tag     string        `json:"tag"`
	Exhibit model.Exhibit `json:"exhibit"`
}

// NewRedirecting builds a Redirecting body for the given location.
func NewRedirecting(location string) Redirecting {
	return Redirecting{Tag: "Redirecting", Location: location}
}

// NewSessionGranted builds a SessionGranted body.
func NewSessionGranted(session model.UserSession) SessionGranted {
	return SessionGranted{Tag: "SessionGranted", Session: session}
}

// NewSessionRefreshed builds a SessionRefreshed body.
func NewSessionRefreshed(session model.UserSession) SessionRefreshed {
	return SessionRefreshed{Tag: "SessionRefreshed", Session: session}
}

// NewSessionDestroyed builds a SessionDestroyed body.
func NewSessionDestroyed() SessionDestroyed {
	return SessionDestroyed{Tag: "SessionDestroyed"}
}

// NewAuthorExhibitsFetched builds an AuthorExhibitsFetched body. A nil
// slice is normalised to an empty one so the JSON is always an array.
func NewAuthorExhibitsFetched(exhibits []string) AuthorExhibitsFetched {
	if exhibits == nil {
		exhibits = []string{}
	}
	return AuthorExhibitsFetched{Tag: "AuthorExhibitsFetched", Exhibits: exhibits}
}

// NewExhibitCreated builds an ExhibitCreated body.
func NewExhibitCreated(exhibit model.Exhibit) ExhibitCreated {
	return ExhibitCreated{Tag: "ExhibitCreated", Exhibit: exhibit}
}

func (b Redirecting) ResponseTag() string           { return b.Tag }
func (b SessionGranted) ResponseTag() string        { return b.Tag }
func (b SessionRefreshed) ResponseTag() string      { return b.Tag }
func (b SessionDestroyed) ResponseTag() string      { return b.Tag }
func (b AuthorExhibitsFetched) ResponseTag() string { return b.Tag }
func (b ExhibitCreated) ResponseTag() string        { return b.Tag }

// --- error bodies -----------------------------------------------------------

// Error is a bare error tag with no payload.
type Error struct {
	Tag string `json:"tag"`
}

func (b Error) ResponseTag() string { return b.Tag }

// AuthorNotFoundWithElmLangPackages is the one error tag with a payload:
// the author has no exhibits here, but does publish elm packages, so the
// frontend can offer those instead.
type AuthorNotFoundWithElmLangPackages struct {
	Tag      string             `json:"tag"`
	Packages []model.ElmPackage `json:"packages"`
}

func (b AuthorNotFoundWithElmLangPackages) ResponseTag() string { return b.Tag }

// NewAuthorNotFoundWithPackages builds the packages-bearing author error.
func NewAuthorNotFoundWithPackages(packages []model.ElmPackage) AuthorNotFoundWithElmLangPackages {
	return AuthorNotFoundWithElmLangPackages{Tag: "AuthorNotFoundWithElmLangPackages", Packages: packages}
}

// LoginFailed: an upstream call (OAuth exchange, profile fetch) or a store
// write inside the callback failed. Fail-closed: any token already
// obtained is discarded.
func LoginFailed() Error { return Error{Tag: "LoginFailed"} }

// RefreshFailed: the cookie was present but no live session backs it.
func RefreshFailed() Error { return Error{Tag: "RefreshFailed"} }

// SessionNotFound: a well-formed session id that resolves to nothing.
func SessionNotFound() Error { return Error{Tag: "SessionNotFound"} }

// MissingCookie: the request needs a session cookie and has none.
func MissingCookie() Error { return Error{Tag: "MissingCookie"} }

// MissingAuthorParam: the author query parameter is required and absent.
func MissingAuthorParam() Error { return Error{Tag: "MissingAuthorParam"} }

// AuthorNotFound: the author is neither a known user nor an elm package
// publisher.
func AuthorNotFound() Error { return Error{Tag: "AuthorNotFound"} }

// NoIdea is the catch-all for failures with no more specific cause.
func NoIdea() Error { return Error{Tag: "KeineAhnung"} }
