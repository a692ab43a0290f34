// Package auth provides GitHub authentication token management.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, complex implementation hidden.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
)

// ErrNoToken indicates a request without a bearer token.
var ErrNoToken = errors.New("no bearer token")

// TokenProvider defines the interface for obtaining a GitHub authentication token.
// Implementations may use different sources (CLI tools, environment variables, etc).
type TokenProvider interface {
	GetToken() (string, error)
}

// GhCliProvider obtains tokens by shelling out to the GitHub CLI (`gh auth token`).
// This is the preferred method as it respects the user's gh CLI authentication state.
type GhCliProvider struct{}

// GetToken shells out to `gh auth token` to retrieve the current token.
// Returns an error if gh CLI is not installed, not authenticated, or the command fails.
func (g *GhCliProvider) GetToken() (string, error) {
	cmd := exec.Command("gh", "auth", "token", "--hostname", "github.com")
	output, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}

	return token, nil
}

// EnvProvider obtains tokens from an environment variable, GITHUB_TOKEN by default.
type EnvProvider struct {
	Var string
}

func (e *EnvProvider) name() string {
	if e.Var == "" {
		return "GITHUB_TOKEN"
	}
	return e.Var
}

// GetToken reads the environment variable.
// Returns an error if the variable is not set or is empty.
func (e *EnvProvider) GetToken() (string, error) {
	token := strings.TrimSpace(os.Getenv(e.name()))
	if token == "" {
		return "", fmt.Errorf("%s environment variable not set or empty", e.name())
	}
	return token, nil
}

// StaticProvider returns a fixed token, e.g. one passed with --token.
type StaticProvider struct {
	Token string
}

// GetToken returns the configured token or an error if it is empty.
func (s *StaticProvider) GetToken() (string, error) {
	if s.Token == "" {
		return "", errors.New("no token configured")
	}
	return s.Token, nil
}

// GetToken attempts to obtain a GitHub token using the following strategy:
// 1. Try gh CLI first (preferred method)
// 2. Fall back to GITHUB_TOKEN environment variable
// 3. Return a clear, actionable error if both fail
//
// This is the main entry point for token retrieval in the CLI.
func GetToken() (string, error) {
	return FirstToken(&GhCliProvider{}, &EnvProvider{})
}

// FirstToken returns the token of the first provider that yields one.
// If all fail, the error lists every provider's failure.
func FirstToken(providers ...TokenProvider) (string, error) {
	var errs []string
	for _, provider := range providers {
		token, err := provider.GetToken()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err.Error())
	}

	return "", fmt.Errorf(
		"failed to obtain GitHub token (%s).\n"+
			"Please either:\n"+
			"  1. Run 'gh auth login' to authenticate with GitHub CLI, or\n"+
			"  2. Set the GITHUB_TOKEN environment variable with a personal access token",
		strings.Join(errs, "; "),
	)
}

// BearerToken extracts the token from an `Authorization: Bearer <token>`
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNoToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
