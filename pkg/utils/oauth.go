package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/medconnect/scheduling/internal/config"
)

const (
	tokenDirName   = ".scheduling/tokens"
	tokenFilePerms = 0600 // Read/write for owner only
	tokenDirPerms  = 0700 // Read/write/execute for owner only
)

// DefaultTokenDir returns the directory refreshed tokens are cached in
func DefaultTokenDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, tokenDirName), nil
}

// NewRefreshingTokenSource returns a token source that refreshes access tokens
// against the configured token endpoint. It starts from the token cached for
// env in tokenDir, or from the configured refresh token when nothing is
// cached, and writes every newly issued token back to the cache.
func NewRefreshingTokenSource(ctx context.Context, oauthCfg *config.OAuthConfig, env, tokenDir string, logger *zap.Logger) (oauth2.TokenSource, error) {
	conf := &oauth2.Config{
		ClientID:     oauthCfg.ClientID,
		ClientSecret: oauthCfg.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: oauthCfg.TokenURL},
		Scopes:       oauthCfg.Scopes,
	}

	seed, err := LoadTokenFromFile(tokenDir, env)
	if err != nil {
		logger.Warn("Ignoring unreadable cached token", zap.Error(err))
		seed = nil
	}
	if seed == nil {
		if oauthCfg.RefreshToken == "" {
			return nil, fmt.Errorf("no cached token for %s and no oauth.refreshToken configured", env)
		}
		seed = &oauth2.Token{RefreshToken: oauthCfg.RefreshToken}
	}

	return &persistingTokenSource{
		base:     conf.TokenSource(ctx, seed),
		env:      env,
		tokenDir: tokenDir,
		logger:   logger,
		last:     seed,
	}, nil
}

// persistingTokenSource saves each token it has not seen before
type persistingTokenSource struct {
	base     oauth2.TokenSource
	env      string
	tokenDir string
	logger   *zap.Logger

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil || s.last.AccessToken != token.AccessToken {
		s.logger.Debug("Access token refreshed", zap.Time("expiry", token.Expiry))
		if err := SaveTokenToFile(s.tokenDir, s.env, token); err != nil {
			// The token is still usable for this process
			s.logger.Warn("Failed to cache refreshed token", zap.Error(err))
		}
		s.last = token
	}

	return token, nil
}

func tokenFilePath(tokenDir, env string) string {
	return filepath.Join(tokenDir, fmt.Sprintf("token-%s.json", env))
}

// LoadTokenFromFile loads the cached token for env.
// Returns nil if the file doesn't exist (not an error - just means no cached token)
func LoadTokenFromFile(tokenDir, env string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFilePath(tokenDir, env))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}

// SaveTokenToFile caches token for env with owner-only permissions
func SaveTokenToFile(tokenDir, env string, token *oauth2.Token) error {
	if err := os.MkdirAll(tokenDir, tokenDirPerms); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(tokenFilePath(tokenDir, env), data, tokenFilePerms); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// DeleteTokenFile removes the cached token for env
func DeleteTokenFile(tokenDir, env string) error {
	if err := os.Remove(tokenFilePath(tokenDir, env)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}
