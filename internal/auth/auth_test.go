package auth

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingProvider always fails with its message.
type failingProvider struct{ msg string }

func (f *failingProvider) GetToken() (string, error) { return "", errors.New(f.msg) }

func TestGhCliProvider_GetToken(t *testing.T) {
	provider := &GhCliProvider{}
	token, err := provider.GetToken()

	// This test only passes with a token if gh CLI is installed and authenticated.
	// Otherwise the error should be descriptive.
	if err != nil {
		assert.Contains(t, err.Error(), "gh")
	} else {
		assert.NotEmpty(t, token)
	}
}

func TestEnvProvider_GetToken_Success(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test_token_123")

	token, err := (&EnvProvider{}).GetToken()

	require.NoError(t, err)
	assert.Equal(t, "ghp_test_token_123", token)
}

func TestEnvProvider_GetToken_CustomVar(t *testing.T) {
	t.Setenv("GHBOARDS_TOKEN", "  ghp_custom  ")

	token, err := (&EnvProvider{Var: "GHBOARDS_TOKEN"}).GetToken()

	require.NoError(t, err)
	assert.Equal(t, "ghp_custom", token)
}

func TestEnvProvider_GetToken_Missing(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	token, err := (&EnvProvider{}).GetToken()

	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

func TestStaticProvider(t *testing.T) {
	token, err := (&StaticProvider{Token: "abc"}).GetToken()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = (&StaticProvider{}).GetToken()
	assert.Error(t, err)
}

func TestFirstToken_FallsBack(t *testing.T) {
	token, err := FirstToken(&failingProvider{msg: "gh CLI not found in PATH"}, &StaticProvider{Token: "fallback"})

	require.NoError(t, err)
	assert.Equal(t, "fallback", token)
}

func TestFirstToken_AllFail(t *testing.T) {
	_, err := FirstToken(&failingProvider{msg: "gh CLI not found in PATH"}, &failingProvider{msg: "GITHUB_TOKEN not set"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gh CLI not found in PATH; GITHUB_TOKEN not set")
	assert.Contains(t, err.Error(), "gh auth login")
}

func TestGetToken_FallbackToEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_fallback_token")

	// Either gh CLI or the env token wins; both are non-empty.
	token, err := GetToken()

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Token abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			token, err := BearerToken(r)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrNoToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestTokenProvider_Interface(t *testing.T) {
	var _ TokenProvider = &GhCliProvider{}
	var _ TokenProvider = &EnvProvider{}
	var _ TokenProvider = &StaticProvider{}
}
