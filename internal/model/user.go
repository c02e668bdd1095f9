// Package model defines the data structures used throughout the application.
package model

// User is the durable record for a GitHub identity that has logged in at
// least once. It is keyed by the GitHub numeric user ID.
//
// WHY UserID int64?
// GitHub user IDs are integers (e.g. 1234567). Using int64 avoids overflow
// for large GitHub account numbers, and the ID is stable — usernames can be
// changed on GitHub, the numeric ID never is.
//
// The AccessToken is the OAuth token obtained at the user's most recent
// login. It is overwritten wholesale on every login; there is no rotation
// history.
type User struct {
	Username    string `json:"username"`
	UserID      int64  `json:"userId"`
	AvatarURL   string `json:"avatarUrl"`
	AccessToken string `json:"accessToken"`
}
