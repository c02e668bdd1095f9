package redis

import (
	"testing"
	"time"
)

// The key suffixes are a persisted, load-bearing format — these are exact
// literal checks on purpose.

func TestTempSessionKey(t *testing.T) {
	if got := tempSessionKey("1234"); got != "1234.tempSession" {
		t.Errorf("tempSessionKey(%q) = %q, want %q", "1234", got, "1234.tempSession")
	}
}

func TestSessionKey(t *testing.T) {
	if got := sessionKey("12-34"); got != "12-34.session" {
		t.Errorf("sessionKey(%q) = %q, want %q", "12-34", got, "12-34.session")
	}
}

func TestSessionKeysAreDistinct(t *testing.T) {
	if tempSessionKey("1234") == sessionKey("1234") {
		t.Error("temp session and session keys must never collide for the same id")
	}
}

func TestUserKey(t *testing.T) {
	if got := userKey(12345); got != "12345.user" {
		t.Errorf("userKey(12345) = %q, want %q", got, "12345.user")
	}
}

func TestExhibitKey(t *testing.T) {
	got := exhibitKey("Confidenceman02", "elm-animate-height")
	want := "Confidenceman02.elm-animate-height.exhibit"
	if got != want {
		t.Errorf("exhibitKey = %q, want %q", got, want)
	}
}

func TestPackageCacheKey(t *testing.T) {
	if got := packageCacheKey(); got != "elmLangPackages.cache" {
		t.Errorf("packageCacheKey() = %q, want %q", got, "elmLangPackages.cache")
	}
}

func TestExpiryPolicy(t *testing.T) {
	if tempSessionTTL != 300*time.Second {
		t.Errorf("tempSessionTTL = %v, want 300s", tempSessionTTL)
	}
	if sessionTTL != 604800*time.Second {
		t.Errorf("sessionTTL = %v, want 604800s", sessionTTL)
	}
	if packageCacheTTL != 600*time.Second {
		t.Errorf("packageCacheTTL = %v, want 600s", packageCacheTTL)
	}
}
