package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// State is the OAuth state parameter: it ties the callback GitHub sends us
// back to the temp session we created before redirecting, and remembers
// the page the user started the login from.
//
// The blob is base64 of the JSON object and must round-trip exactly —
// the sessionId inside it is checked against the store on callback, which
// is the only CSRF/tamper guard in the flow.
type State struct {
	SessionID string `json:"sessionId"`
	Referer   string `json:"referer"`
}

// EncodeState serialises the state to its base64-JSON wire form.
func EncodeState(s State) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("auth: encoding state: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeState parses a base64-JSON state blob. Malformed base64 or JSON
// fails fast — a blob we cannot parse was not produced by EncodeState.
func DecodeState(blob string) (State, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return State{}, fmt.Errorf("auth: decoding state base64: %w", err)
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("auth: decoding state JSON: %w", err)
	}
	return s, nil
}
