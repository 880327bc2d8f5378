package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/vs-wedding/backend/core"
	"github.com/vs-wedding/backend/pkg/crypto"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
)

// AuthService implements local registration, password sign-in and sign-out
// on top of the credential store and the token issuer.
type AuthService struct {
	store     core.AuthStorage
	passwords core.PasswordHandler
	issuer    *TokenIssuer
	ids       *crypto.NanoIDGenerator
	logger    *zap.Logger
}

// Ensure AuthService implements AuthProvider
var _ core.AuthProvider = (*AuthService)(nil)

func NewAuthService(store core.AuthStorage, passwords core.PasswordHandler, issuer *TokenIssuer, ids *crypto.NanoIDGenerator, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:     store,
		passwords: passwords,
		issuer:    issuer,
		ids:       ids,
		logger:    logger,
	}
}

// Register creates a new local account with email and password.
func (s *AuthService) Register(ctx context.Context, input core.RegisterInput) (*core.Account, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	// Step 1: Check if the email is already taken
	existing, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil && !errors.Is(err, core.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, core.ErrAccountExists
	}

	// Step 2: Hash the password
	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Create the account
	id, err := s.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account id: %w", err)
	}

	account := &core.Account{
		ID:             id,
		Email:          email,
		EmailConfirmed: true,
		FullName:       strings.TrimSpace(input.FullName),
		PasswordHash:   &hash,
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, core.ErrDuplicate) {
			return nil, core.ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("registered account", zap.String("account_id", account.ID))
	return account, nil
}

// Login authenticates an account with email and password and mints a token
// pair. Unknown emails and wrong passwords are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, input core.LoginInput) (*core.TokenPair, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, core.ErrInvalidCredentials
	}

	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	// Provider-only accounts carry no password hash
	if account.PasswordHash == nil {
		return nil, core.ErrInvalidCredentials
	}

	valid, err := s.passwords.Verify(input.Password, *account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	return s.issuer.Issue(ctx, account)
}

// Refresh exchanges a refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*core.TokenPair, error) {
	return s.issuer.Refresh(ctx, refreshToken)
}

// Logout revokes every session of the account.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	return s.issuer.RevokeAll(ctx, accountID)
}

// AccountInfo loads the account behind a validated access token.
func (s *AuthService) AccountInfo(ctx context.Context, accountID string) (*core.Account, error) {
	return s.store.GetAccountByID(ctx, accountID)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", core.ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", core.ErrInvalidEmail
	}
	return email, nil
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return core.ErrPasswordRequired
	case len(password) < minPasswordLen:
		return core.ErrPasswordTooShort
	case len(password) > maxPasswordLen:
		return core.ErrPasswordTooLong
	}
	return nil
}
