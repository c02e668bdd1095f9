// Package main is the entry point for the elm-exhibit backend.
//
// Its job is configuration and startup only: read the environment, build
// the logger, hand everything to internal/server. All actual behaviour
// lives in the internal packages.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/confidenceman02/elm-exhibit/internal/server"
)

// envOr returns the named environment variable, or fallback when unset.
func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	port := 8888
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// GITHUB_CLIENT_ID / GITHUB_CLIENT_SECRET come from the registered
	// OAuth App. Without them the server still starts — browsing works,
	// login answers LoginFailed.
	githubClientID := os.Getenv("GITHUB_CLIENT_ID")
	githubClientSecret := os.Getenv("GITHUB_CLIENT_SECRET")
	if githubClientID == "" || githubClientSecret == "" {
		logger.Warn("GitHub OAuth credentials not set — login is unavailable")
	}

	cfg := server.Config{
		Port:               port,
		RedisAddr:          envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		GitHubClientID:     githubClientID,
		GitHubClientSecret: githubClientSecret,
		GitHubCallbackURL: envOr("GITHUB_CALLBACK_URL",
			fmt.Sprintf("http://localhost:%d/api/session/callback", port)),
		ElmSearchURL: os.Getenv("ELM_PACKAGE_SEARCH_URL"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// logLevel reads LOG_LEVEL (debug, info, warn, error); default info.
func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
