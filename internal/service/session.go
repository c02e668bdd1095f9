// Package service — the business logic between the HTTP handlers and the
// repositories.
//
// SESSION LIFECYCLE:
//
//	NoSession → TempSessionIssued → (OAuthPending) → SessionEstablished
//	          → (SessionDestroyed | TTL-Expired)
//
// A login starts with IssueTempSession: a fresh random id is written to
// the store under a 5-minute TTL and embedded — together with the
// referring page — in the state blob of the GitHub authorize URL. When
// GitHub calls back, CompleteOAuthCallback proves the state blob is ours
// by checking that temp session still exists, exchanges the code, writes
// the durable session, and upserts the user record.
package service

import (
	"context"
	"log/slog"

	"github.com/rs/xid"

	"github.com/confidenceman02/elm-exhibit/internal/auth"
	"github.com/confidenceman02/elm-exhibit/internal/metrics"
	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/repository"
	"github.com/confidenceman02/elm-exhibit/internal/result"
)

// SessionService drives the session state machine.
type SessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	github   *auth.GitHubProvider
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewSessionService creates a SessionService with all dependencies
// injected.
func NewSessionService(
	sessions repository.SessionRepository,
	users repository.UserRepository,
	github *auth.GitHubProvider,
	logger *slog.Logger,
	m *metrics.Metrics,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		github:   github,
		logger:   logger,
		metrics:  m,
	}
}

// TempSessionGrant is the successful outcome of IssueTempSession: the id
// the temp session was stored under, and the GitHub authorize URL the
// browser should be sent to.
type TempSessionGrant struct {
	SessionID    string
	AuthorizeURL string
}

// IssueTempSession starts a login attempt. It fails when OAuth client
// configuration is absent or the store write does not fully succeed —
// redirecting the user to GitHub with a state we failed to record would
// guarantee a dead-end callback.
func (s *SessionService) IssueTempSession(ctx context.Context, referer string) result.Result[TempSessionGrant] {
	if !s.github.Configured() {
		s.logger.Error("temp session refused: OAuth client not configured")
		return result.Err[TempSessionGrant]()
	}

	sessionID := xid.New().String()

	blob, err := auth.EncodeState(auth.State{SessionID: sessionID, Referer: referer})
	if err != nil {
		s.logger.Error("temp session refused: state encoding failed",
			slog.String("error", err.Error()),
		)
		return result.Err[TempSessionGrant]()
	}

	if !s.sessions.InitTempSession(ctx, model.TempSession{SessionID: sessionID, Referer: referer}) {
		return result.Err[TempSessionGrant]()
	}

	s.logger.Info("temp session issued", slog.String("sessionID", sessionID))

	return result.Ok(TempSessionGrant{
		SessionID:    sessionID,
		AuthorizeURL: s.github.AuthorizeURL(blob),
	})
}

// CompleteOAuthCallback finishes a login attempt.
//
// The temp-session existence check is the sole guard against CSRF/state
// tampering: the opaque session id inside the state blob must match a
// record this server itself created within the last five minutes.
//
// FAIL-CLOSED:
// If the code exchange succeeds but any subsequent store write fails, the
// outcome is still a login failure. The obtained access token is
// discarded, not cached for retry.
func (s *SessionService) CompleteOAuthCallback(ctx context.Context, code, stateBlob string) result.Result[model.UserSession] {
	state, err := auth.DecodeState(stateBlob)
	if err != nil {
		s.logger.Warn("callback rejected: malformed state blob",
			slog.String("error", err.Error()),
		)
		return s.loginFailed()
	}

	if !s.sessions.TempSessionExists(ctx, state.SessionID) {
		s.logger.Warn("callback rejected: no matching temp session",
			slog.String("sessionID", state.SessionID),
		)
		return s.loginFailed()
	}

	ghUser, accessToken, err := s.github.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("callback failed: GitHub exchange",
			slog.String("error", err.Error()),
		)
		return s.loginFailed()
	}

	session := model.UserSession{
		Username:  ghUser.Login,
		UserID:    ghUser.ID,
		AvatarURL: ghUser.AvatarURL,
		SessionID: state.SessionID,
	}

	if !s.sessions.InitSession(ctx, session) {
		return s.loginFailed()
	}

	// Read the session back rather than trusting our local copy — what we
	// return must be what an immediately following request will see.
	fetched := s.sessions.GetSession(ctx, state.SessionID)
	if fetched.IsErr() {
		return s.loginFailed()
	}

	// Upsert the durable user record. An existing user (cookie expired,
	// app re-authorized) just gets a fresh access token; a first-time
	// user gets a record and an index entry.
	if s.users.UserExists(ctx, ghUser.ID) {
		if !s.users.UpdateUserAccessToken(ctx, ghUser.ID, accessToken) {
			return s.loginFailed()
		}
	} else {
		created := s.users.CreateUser(ctx, model.User{
			Username:    ghUser.Login,
			UserID:      ghUser.ID,
			AvatarURL:   ghUser.AvatarURL,
			AccessToken: accessToken,
		})
		if !created {
			return s.loginFailed()
		}
	}

	s.logger.Info("session established",
		slog.String("sessionID", session.SessionID),
		slog.String("username", session.Username),
	)
	s.metrics.LoginsGranted.Inc()

	return fetched
}

// GetSession looks up the durable session for a cookie-carried id. Err is
// the normal "not logged in" outcome.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) result.Result[model.UserSession] {
	return s.sessions.GetSession(ctx, sessionID)
}

// DestroySession removes the session, reporting whether one was removed.
func (s *SessionService) DestroySession(ctx context.Context, sessionID string) bool {
	destroyed := s.sessions.DestroySession(ctx, sessionID)
	if destroyed {
		s.logger.Info("session destroyed", slog.String("sessionID", sessionID))
	}
	return destroyed
}

func (s *SessionService) loginFailed() result.Result[model.UserSession] {
	s.metrics.LoginsFailed.Inc()
	return result.Err[model.UserSession]()
}
