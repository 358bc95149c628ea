package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/medconnect/scheduling/internal/config"
)

func newTokenServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))

		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"access-%d","token_type":"Bearer","refresh_token":"refresh-%d","expires_in":3600}`, n, n)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewRefreshingTokenSource_RefreshesAndCaches(t *testing.T) {
	var calls int32
	server := newTokenServer(t, &calls)
	dir := t.TempDir()

	oauthCfg := &config.OAuthConfig{TokenURL: server.URL, ClientID: "cli", RefreshToken: "seed"}
	ts, err := NewRefreshingTokenSource(context.Background(), oauthCfg, "test", dir, zap.NewNop())
	require.NoError(t, err)

	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-1", token.AccessToken)

	// Still valid, so no second refresh
	token, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-1", token.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	cached, err := LoadTokenFromFile(dir, "test")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "access-1", cached.AccessToken)
	assert.Equal(t, "refresh-1", cached.RefreshToken)
}

func TestNewRefreshingTokenSource_UsesCachedToken(t *testing.T) {
	var calls int32
	server := newTokenServer(t, &calls)
	dir := t.TempDir()

	require.NoError(t, SaveTokenToFile(dir, "test", &oauth2.Token{
		AccessToken:  "cached",
		TokenType:    "Bearer",
		RefreshToken: "r",
		Expiry:       time.Now().Add(time.Hour),
	}))

	oauthCfg := &config.OAuthConfig{TokenURL: server.URL, ClientID: "cli"}
	ts, err := NewRefreshingTokenSource(context.Background(), oauthCfg, "test", dir, zap.NewNop())
	require.NoError(t, err)

	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "cached", token.AccessToken)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestNewRefreshingTokenSource_NothingToStartFrom(t *testing.T) {
	oauthCfg := &config.OAuthConfig{TokenURL: "https://auth.example.com/token", ClientID: "cli"}

	_, err := NewRefreshingTokenSource(context.Background(), oauthCfg, "test", t.TempDir(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cached token")
}

func TestTokenFileRoundTripAndDelete(t *testing.T) {
	dir := t.TempDir()

	token, err := LoadTokenFromFile(dir, "prod")
	require.NoError(t, err)
	assert.Nil(t, token)

	require.NoError(t, SaveTokenToFile(dir, "prod", &oauth2.Token{AccessToken: "a"}))
	token, err = LoadTokenFromFile(dir, "prod")
	require.NoError(t, err)
	assert.Equal(t, "a", token.AccessToken)

	require.NoError(t, DeleteTokenFile(dir, "prod"))
	require.NoError(t, DeleteTokenFile(dir, "prod"))
	token, err = LoadTokenFromFile(dir, "prod")
	require.NoError(t, err)
	assert.Nil(t, token)
}
