// Package auth implements the GitHub side of the login flow: building the
// authorization URL, exchanging the callback code for an access token, and
// fetching the authenticated user's profile.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// defaultUserEndpoint is GitHub's authenticated-user API.
// https://docs.github.com/en/rest/users/users#get-the-authenticated-user
const defaultUserEndpoint = "https://api.github.com/user"

// GitHubUser is the portion of the GitHub /user response we care about.
// GitHub returns a much larger object — we only unmarshal what we store.
type GitHubUser struct {
	ID        int64  `json:"id"`         // GitHub's numeric user ID — stable, never changes
	Login     string `json:"login"`      // GitHub username, e.g. "Confidenceman02"
	AvatarURL string `json:"avatar_url"` // Profile picture URL
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub Authorization
// Code flow.
//
// FLOW:
//  1. AuthorizeURL sends the browser to GitHub with our client id and an
//     opaque state blob.
//  2. GitHub redirects back to the callback with a short-lived code.
//  3. Exchange trades the code for an access token (server-to-server, the
//     client secret never leaves this process) and fetches the profile.
type GitHubProvider struct {
	config       *oauth2.Config
	userEndpoint string
}

// NewGitHubProvider creates a provider for the real GitHub endpoints.
// ClientID/ClientSecret come from the registered OAuth App; callbackURL
// must match the app's configured authorization callback exactly.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Endpoint:     github.Endpoint,
		},
		userEndpoint: defaultUserEndpoint,
	}
}

// NewGitHubProviderWithEndpoints is NewGitHubProvider with the GitHub
// endpoints swapped out. Tests point this at an httptest server.
func NewGitHubProviderWithEndpoints(clientID, clientSecret, callbackURL string, endpoint oauth2.Endpoint, userEndpoint string) *GitHubProvider {
	p := NewGitHubProvider(clientID, clientSecret, callbackURL)
	p.config.Endpoint = endpoint
	p.userEndpoint = userEndpoint
	return p
}

// Configured reports whether OAuth client credentials are present. Without
// them no authorize URL can be built, so login is unavailable.
func (p *GitHubProvider) Configured() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

// AuthorizeURL returns the GitHub authorization URL carrying the given
// state. The state is the base64 blob produced by EncodeState; GitHub
// echoes it back verbatim on the callback.
func (p *GitHubProvider) AuthorizeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange completes the flow: code → access token → user profile.
//
// Both external calls are fallible and bounded; any non-success HTTP
// status is an error. The access token is returned alongside the profile
// so the caller can persist it on the user record.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// config.Client returns an *http.Client that adds the Authorization
	// header to every request.
	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.userEndpoint)
	if err != nil {
		return nil, "", fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, "", fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}

	if ghUser.ID == 0 {
		return nil, "", fmt.Errorf("auth: GitHub returned an invalid user (ID = 0)")
	}

	return &ghUser, token.AccessToken, nil
}
