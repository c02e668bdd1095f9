package model

// TempSession correlates an in-flight OAuth login attempt with the page the
// user started it from. It lives in the store under a short TTL and is
// consulted exactly once — during the OAuth callback — to prove that the
// state parameter GitHub echoed back originated from this server.
// It is never explicitly deleted; the TTL does the cleanup.
type TempSession struct {
	SessionID string `json:"sessionId"`
	Referer   string `json:"referer"`
}

// UserSession identifies an authenticated browser. The SessionID is the
// opaque value carried by the session_id cookie; everything else is a
// denormalised copy of the user's profile so that authenticated requests
// don't need a second lookup.
//
// Sessions expire via TTL (7 days) or are explicitly destroyed on logout.
type UserSession struct {
	Username  string `json:"username"`
	UserID    int64  `json:"userId"`
	AvatarURL string `json:"avatarUrl"`
	SessionID string `json:"sessionId"`
}
