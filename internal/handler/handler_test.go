package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/confidenceman02/elm-exhibit/internal/auth"
	"github.com/confidenceman02/elm-exhibit/internal/elm"
	"github.com/confidenceman02/elm-exhibit/internal/metrics"
	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/repository/redis"
	"github.com/confidenceman02/elm-exhibit/internal/service"
)

// testEnv wires the full stack — handlers, services, repositories — over
// a miniredis store and stubbed GitHub and package-index servers. These
// are end-to-end tests at the HTTP boundary; only the external networks
// are faked.
type testEnv struct {
	sessions *SessionHandler
	exhibits *ExhibitHandler
	db       *redis.DB
	mr       *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	db := redis.NewWithClient(client, logger)

	github := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login/oauth/access_token":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token": "gho_testtoken",
				"token_type":   "bearer",
			})
		case "/user":
			_ = json.NewEncoder(w).Encode(auth.GitHubUser{
				ID:        2345,
				Login:     "Confidenceman02",
				AvatarURL: "https://avatars.githubusercontent.com/u/2345",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(github.Close)

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]model.ElmPackage{
			{Name: "Confidenceman02/elm-animate-height"},
			{Name: "elm/core"},
		})
	}))
	t.Cleanup(search.Close)

	provider := auth.NewGitHubProviderWithEndpoints(
		"test-client-id",
		"test-client-secret",
		github.URL+"/callback",
		oauth2.Endpoint{
			AuthURL:  github.URL + "/login/oauth/authorize",
			TokenURL: github.URL + "/login/oauth/access_token",
		},
		github.URL+"/user",
	)

	m := metrics.New(prometheus.NewRegistry())
	sessionSvc := service.NewSessionService(db, db, provider, logger, m)
	packageSvc := service.NewPackageService(db, elm.NewClient(search.URL), logger, m)
	exhibitSvc := service.NewExhibitService(db, db, packageSvc, logger)

	return &testEnv{
		sessions: NewSessionHandler(sessionSvc, logger),
		exhibits: NewExhibitHandler(exhibitSvc, sessionSvc, logger),
		db:       db,
		mr:       mr,
	}
}

// taggedBody decodes just the tag of any response body.
type taggedBody struct {
	Tag string `json:"tag"`
}

func decodeTag(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body taggedBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Tag
}

func sessionCookie(value string) *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: value}
}

// seedSession writes a live session and its user record straight into the
// store, skipping the OAuth dance.
func seedSession(t *testing.T, env *testEnv) model.UserSession {
	t.Helper()
	session := model.UserSession{
		Username:  "Confidenceman02",
		UserID:    2345,
		AvatarURL: "https://avatars.githubusercontent.com/u/2345",
		SessionID: "seeded-session",
	}
	require.True(t, env.db.InitSession(context.Background(), session))
	require.True(t, env.db.CreateUser(context.Background(), model.User{
		Username:    session.Username,
		UserID:      session.UserID,
		AvatarURL:   session.AvatarURL,
		AccessToken: "gho_seeded",
	}))
	return session
}

func TestGrantIssuesRedirect(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session/grant", nil)
	req.Header.Set("Referer", "https://elm-exhibit.com/gallery")
	rec := httptest.NewRecorder()
	env.sessions.HandleGrant(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tag      string `json:"tag"`
		Location string `json:"location"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Redirecting", body.Tag)

	// The redirect target carries a state blob naming a temp session that
	// is now in the store with its referer.
	location, err := url.Parse(body.Location)
	require.NoError(t, err)
	state, err := auth.DecodeState(location.Query().Get("state"))
	require.NoError(t, err)
	assert.Equal(t, "https://elm-exhibit.com/gallery", state.Referer)
	assert.True(t, env.mr.Exists(state.SessionID+".tempSession"))
}

func TestGrantWithLiveSession(t *testing.T) {
	env := newTestEnv(t)
	session := seedSession(t, env)

	req := httptest.NewRequest(http.MethodGet, "/api/session/grant", nil)
	req.AddCookie(sessionCookie(session.SessionID))
	rec := httptest.NewRecorder()
	env.sessions.HandleGrant(rec, req)

	// No OAuth round trip: the live session comes straight back with a
	// refreshed cookie.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SessionGranted", decodeTag(t, rec))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, session.SessionID, cookies[0].Value)
	assert.Equal(t, sessionCookieMaxAge, cookies[0].MaxAge)
}

// TestLoginRoundTrip drives the whole lifecycle through the HTTP
// handlers: grant → callback → refresh → destroy → refresh.
func TestLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	// Grant: no cookie, so we are told to visit GitHub.
	req := httptest.NewRequest(http.MethodGet, "/api/session/grant", nil)
	rec := httptest.NewRecorder()
	env.sessions.HandleGrant(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var redirect struct {
		Tag      string `json:"tag"`
		Location string `json:"location"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&redirect))
	require.Equal(t, "Redirecting", redirect.Tag)

	location, err := url.Parse(redirect.Location)
	require.NoError(t, err)
	stateBlob := location.Query().Get("state")
	require.NotEmpty(t, stateBlob)

	// Callback: GitHub redirects back with a code and our state.
	req = httptest.NewRequest(http.MethodGet,
		"/api/session/callback?code=test-code&state="+url.QueryEscape(stateBlob), nil)
	rec = httptest.NewRecorder()
	env.sessions.HandleCallback(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var granted struct {
		Tag     string            `json:"tag"`
		Session model.UserSession `json:"session"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&granted))
	require.Equal(t, "SessionGranted", granted.Tag)
	assert.Equal(t, "Confidenceman02", granted.Session.Username)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	sessionID := cookies[0].Value
	require.NotEmpty(t, sessionID)
	assert.Equal(t, granted.Session.SessionID, sessionID)

	// Refresh: the cookie alone re-validates the session.
	req = httptest.NewRequest(http.MethodGet, "/api/session/refresh", nil)
	req.AddCookie(sessionCookie(sessionID))
	rec = httptest.NewRecorder()
	env.sessions.HandleRefresh(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SessionRefreshed", decodeTag(t, rec))

	// Destroy: logout removes the session and expires the cookie.
	req = httptest.NewRequest(http.MethodPost, "/api/session/destroy", nil)
	req.AddCookie(sessionCookie(sessionID))
	rec = httptest.NewRecorder()
	env.sessions.HandleDestroy(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SessionDestroyed", decodeTag(t, rec))

	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	// Refresh again: the session is gone.
	req = httptest.NewRequest(http.MethodGet, "/api/session/refresh", nil)
	req.AddCookie(sessionCookie(sessionID))
	rec = httptest.NewRecorder()
	env.sessions.HandleRefresh(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RefreshFailed", decodeTag(t, rec))
}

func TestCallbackMissingParams(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session/callback", nil)
	rec := httptest.NewRecorder()
	env.sessions.HandleCallback(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "KeineAhnung", decodeTag(t, rec))
}

func TestCallbackForgedState(t *testing.T) {
	env := newTestEnv(t)

	// Well-formed blob, but no temp session was ever issued for it.
	blob, err := auth.EncodeState(auth.State{SessionID: "forged", Referer: "referer"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet,
		"/api/session/callback?code=test-code&state="+url.QueryEscape(blob), nil)
	rec := httptest.NewRecorder()
	env.sessions.HandleCallback(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "LoginFailed", decodeTag(t, rec))
}

func TestCallbackExpiredTempSession(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session/grant", nil)
	rec := httptest.NewRecorder()
	env.sessions.HandleGrant(rec, req)

	var redirect struct {
		Location string `json:"location"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&redirect))
	location, err := url.Parse(redirect.Location)
	require.NoError(t, err)
	stateBlob := location.Query().Get("state")

	// The user dawdles on GitHub's authorize page past the temp session
	// TTL.
	env.mr.FastForward(6 * time.Minute)

	req = httptest.NewRequest(http.MethodGet,
		"/api/session/callback?code=test-code&state="+url.QueryEscape(stateBlob), nil)
	rec = httptest.NewRecorder()
	env.sessions.HandleCallback(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "LoginFailed", decodeTag(t, rec))
}

func TestRefreshWithoutCookie(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session/refresh", nil)
	rec := httptest.NewRecorder()
	env.sessions.HandleRefresh(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RefreshFailed", decodeTag(t, rec))
}

func TestRefreshEmptyCookieValue(t *testing.T) {
	env := newTestEnv(t)

	// An empty cookie value is the same as no cookie.
	req := httptest.NewRequest(http.MethodGet, "/api/session/refresh", nil)
	req.AddCookie(sessionCookie(""))
	rec := httptest.NewRecorder()
	env.sessions.HandleRefresh(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RefreshFailed", decodeTag(t, rec))
}

func TestDestroyWithoutCookie(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/session/destroy", nil)
	rec := httptest.NewRecorder()
	env.sessions.HandleDestroy(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MissingCookie", decodeTag(t, rec))
}

func TestDestroyUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/session/destroy", nil)
	req.AddCookie(sessionCookie("no-such-session"))
	rec := httptest.NewRecorder()
	env.sessions.HandleDestroy(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SessionNotFound", decodeTag(t, rec))
}
