package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"

	"github.com/confidenceman02/elm-exhibit/internal/auth"
	"github.com/confidenceman02/elm-exhibit/internal/metrics"
	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/result"
)

// fakeStore is an in-memory implementation of all four repository
// interfaces. A hand-written fake keeps the tests readable — what it does
// is exactly what you see — and lets us flip individual failure switches
// that would be awkward to trigger against a real store.
type fakeStore struct {
	tempSessions map[string]model.TempSession
	sessions     map[string]model.UserSession
	users        map[int64]model.User
	exhibits     map[int64][]string
	cache        []model.ElmPackage

	failInitTempSession bool
	failInitSession     bool
	failCreateUser      bool
	failSetCache        bool
	cacheWrites         int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tempSessions: make(map[string]model.TempSession),
		sessions:     make(map[string]model.UserSession),
		users:        make(map[int64]model.User),
		exhibits:     make(map[int64][]string),
	}
}

func (f *fakeStore) InitTempSession(_ context.Context, temp model.TempSession) bool {
	if f.failInitTempSession {
		return false
	}
	f.tempSessions[temp.SessionID] = temp
	return true
}

func (f *fakeStore) TempSessionExists(_ context.Context, sessionID string) bool {
	_, ok := f.tempSessions[sessionID]
	return ok
}

func (f *fakeStore) InitSession(_ context.Context, session model.UserSession) bool {
	if f.failInitSession {
		return false
	}
	f.sessions[session.SessionID] = session
	return true
}

func (f *fakeStore) GetSession(_ context.Context, sessionID string) result.Result[model.UserSession] {
	session, ok := f.sessions[sessionID]
	if !ok {
		return result.Err[model.UserSession]()
	}
	return result.Ok(session)
}

func (f *fakeStore) DestroySession(_ context.Context, sessionID string) bool {
	if _, ok := f.sessions[sessionID]; !ok {
		return false
	}
	delete(f.sessions, sessionID)
	return true
}

func (f *fakeStore) CreateUser(_ context.Context, user model.User) bool {
	if f.failCreateUser {
		return false
	}
	f.users[user.UserID] = user
	return true
}

func (f *fakeStore) UserExists(_ context.Context, userID int64) bool {
	_, ok := f.users[userID]
	return ok
}

func (f *fakeStore) GetUser(_ context.Context, userID int64) result.Result[model.User] {
	user, ok := f.users[userID]
	if !ok {
		return result.Err[model.User]()
	}
	return result.Ok(user)
}

func (f *fakeStore) GetUsernameByUserID(_ context.Context, userID int64) result.Result[string] {
	user, ok := f.users[userID]
	if !ok {
		return result.Err[string]()
	}
	return result.Ok(user.Username)
}

func (f *fakeStore) GetUserIDByUsername(_ context.Context, username string) result.Result[int64] {
	for _, user := range f.users {
		if user.Username == username {
			return result.Ok(user.UserID)
		}
	}
	return result.Err[int64]()
}

func (f *fakeStore) UpdateUserAccessToken(_ context.Context, userID int64, token string) bool {
	user, ok := f.users[userID]
	if !ok {
		return false
	}
	user.AccessToken = token
	f.users[userID] = user
	return true
}

func (f *fakeStore) CreateExhibitReference(ctx context.Context, userID int64, exhibitName string) bool {
	user, ok := f.users[userID]
	if !ok {
		return false
	}
	f.exhibits[userID] = append(f.exhibits[userID], user.Username+"."+exhibitName+".exhibit")
	return true
}

func (f *fakeStore) GetExhibitReferencesByUserID(_ context.Context, userID int64) result.Result[[]string] {
	refs := f.exhibits[userID]
	if refs == nil {
		refs = []string{}
	}
	return result.Ok(refs)
}

func (f *fakeStore) GetPackagesCache(_ context.Context) result.Result[[]model.ElmPackage] {
	if f.cache == nil {
		return result.Err[[]model.ElmPackage]()
	}
	return result.Ok(f.cache)
}

func (f *fakeStore) SetPackagesCache(_ context.Context, packages []model.ElmPackage) bool {
	f.cacheWrites++
	if f.failSetCache {
		return false
	}
	f.cache = packages
	return true
}

// githubStub stands in for GitHub's token and /user endpoints.
type githubStub struct {
	srv       *httptest.Server
	provider  *auth.GitHubProvider
	userCalls atomic.Int32
	// set to make the /user call fail
	userStatus int
}

func newGitHubStub(t *testing.T) *githubStub {
	t.Helper()

	stub := &githubStub{userStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "gho_testtoken",
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		stub.userCalls.Add(1)
		if stub.userStatus != http.StatusOK {
			w.WriteHeader(stub.userStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(auth.GitHubUser{
			ID:        2345,
			Login:     "Confidenceman02",
			AvatarURL: "https://avatars.githubusercontent.com/u/2345",
		})
	})

	stub.srv = httptest.NewServer(mux)
	t.Cleanup(stub.srv.Close)

	stub.provider = auth.NewGitHubProviderWithEndpoints(
		"test-client-id",
		"test-client-secret",
		stub.srv.URL+"/callback",
		oauth2.Endpoint{
			AuthURL:  stub.srv.URL + "/login/oauth/authorize",
			TokenURL: stub.srv.URL + "/login/oauth/access_token",
		},
		stub.srv.URL+"/user",
	)
	return stub
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func newTestSessionService(t *testing.T, store *fakeStore) (*SessionService, *githubStub) {
	t.Helper()
	stub := newGitHubStub(t)
	return NewSessionService(store, store, stub.provider, testLogger(), testMetrics()), stub
}
