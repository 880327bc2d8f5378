package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/vs-wedding/backend/core"
	"github.com/vs-wedding/backend/pkg/crypto"
)

// TokenIssuerConfig holds the signing material and lifetimes for issued
// credentials.
type TokenIssuerConfig struct {
	Secret     []byte
	Issuer     string
	Audience   string
	AccessTTL  time.Duration // access token lifetime, 1h by default
	RefreshTTL time.Duration // refresh token lifetime, 30 days by default
}

// TokenIssuer mints signed access tokens and opaque, store-backed refresh
// tokens. Access token validation is stateless; refresh tokens rotate on
// every use and at most one is valid per account.
type TokenIssuer struct {
	store  core.RefreshTokenStorage
	config TokenIssuerConfig
	logger *zap.Logger
}

var _ core.TokenValidator = (*TokenIssuer)(nil)

func NewTokenIssuer(store core.RefreshTokenStorage, config TokenIssuerConfig, logger *zap.Logger) *TokenIssuer {
	if config.AccessTTL == 0 {
		config.AccessTTL = time.Hour
	}
	if config.RefreshTTL == 0 {
		config.RefreshTTL = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenIssuer{store: store, config: config, logger: logger}
}

// Issue mints a fresh token pair for the account. Any previously issued
// refresh token for the same account is invalidated in the same operation.
func (ti *TokenIssuer) Issue(ctx context.Context, account *core.Account) (*core.TokenPair, error) {
	return ti.issueFor(ctx, account.ID)
}

func (ti *TokenIssuer) issueFor(ctx context.Context, accountID string) (*core.TokenPair, error) {
	accessToken, err := ti.signAccessToken(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	pair, err := crypto.GenerateHashedToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	refresh := &core.RefreshToken{
		TokenHash: pair.Hash,
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(ti.config.RefreshTTL),
	}

	if err := ti.store.ReplaceRefreshTokens(ctx, accountID, refresh); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &core.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: pair.Token,
		ExpiresIn:    int64(ti.config.AccessTTL.Seconds()),
	}, nil
}

func (ti *TokenIssuer) signAccessToken(accountID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    ti.config.Issuer,
		Audience:  jwt.ClaimStrings{ti.config.Audience},
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.config.AccessTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.config.Secret)
}

// Validate checks signature, issuer, audience and expiry of a bearer access
// token and returns the account id carried in the subject claim. It never
// touches storage, so protected routes authorize with no added latency.
func (ti *TokenIssuer) Validate(token string) (string, error) {
	if token == "" {
		return "", core.ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return ti.config.Secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(ti.config.Issuer),
		jwt.WithAudience(ti.config.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", core.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", core.ErrInvalidToken
	}

	return claims.Subject, nil
}

// Refresh exchanges a live refresh token for a new token pair. The consumed
// token is deleted as part of the rotation, so a given refresh token string
// can be redeemed exactly once.
func (ti *TokenIssuer) Refresh(ctx context.Context, refreshToken string) (*core.TokenPair, error) {
	if refreshToken == "" {
		return nil, core.ErrInvalidRefreshToken
	}

	row, err := ti.store.GetRefreshTokenByHash(ctx, crypto.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrRefreshTokenNotFound) {
			return nil, core.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if time.Now().After(row.ExpiresAt) {
		return nil, core.ErrInvalidRefreshToken
	}

	// Rotation: issueFor replaces every stored token for the account,
	// which deletes the one just consumed.
	return ti.issueFor(ctx, row.AccountID)
}

// RevokeAll deletes every refresh token owned by the account. Calling it
// when no tokens exist is not an error.
func (ti *TokenIssuer) RevokeAll(ctx context.Context, accountID string) error {
	if err := ti.store.DeleteRefreshTokens(ctx, accountID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	ti.logger.Info("revoked all sessions", zap.String("account_id", accountID))
	return nil
}
