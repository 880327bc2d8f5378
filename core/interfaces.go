package core

import "context"

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// AccountStorage defines account-related database operations.
// Implementations must signal unique-constraint conflicts on email with
// ErrDuplicate so the resolver can fall back to re-reading the winning row.
type AccountStorage interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// IdentityStorage defines linked-identity database operations.
// CreateLinkedIdentity must return ErrDuplicate on a
// (provider, subject_id) conflict.
type IdentityStorage interface {
	CreateLinkedIdentity(ctx context.Context, li *LinkedIdentity) error
	GetLinkedIdentity(ctx context.Context, provider, subjectID string) (*LinkedIdentity, error)
}

// RefreshTokenStorage defines refresh-token database operations.
// ReplaceRefreshTokens atomically removes every row owned by the account
// and inserts the new one, enforcing the single-active-token policy.
// GetRefreshTokenByHash returns ErrRefreshTokenNotFound on a miss.
type RefreshTokenStorage interface {
	ReplaceRefreshTokens(ctx context.Context, accountID string, t *RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	DeleteRefreshTokens(ctx context.Context, accountID string) error
}

// AuthStorage is the full storage surface the identity core depends on.
type AuthStorage interface {
	AccountStorage
	IdentityStorage
	RefreshTokenStorage
}

// GiftStorage defines gift-registry database operations. LockGift succeeds
// only when the gift is currently unowned; UnlockGift only when the caller
// owns it. Both are single-statement conditional updates so concurrent
// callers cannot corrupt another account's reservation.
type GiftStorage interface {
	ListGifts(ctx context.Context) ([]*Gift, error)
	GetGiftByID(ctx context.Context, id int64) (*Gift, error)
	LockGift(ctx context.Context, id int64, accountID string) error
	UnlockGift(ctx context.Context, id int64, accountID string) error
}

// MessageStorage defines guestbook database operations.
type MessageStorage interface {
	ListMessages(ctx context.Context) ([]*Message, error)
	CreateMessage(ctx context.Context, m *Message) error
}

// ParticipationStorage defines RSVP database operations. Reads and writes
// are scoped to the owning account.
type ParticipationStorage interface {
	ListParticipations(ctx context.Context, accountID string) ([]*Participation, error)
	CreateParticipation(ctx context.Context, p *Participation) error
	UpdateParticipation(ctx context.Context, p *Participation) error
	DeleteParticipation(ctx context.Context, accountID string, id int64) error
}

// ActionLogStorage records durable audit rows for guest actions.
type ActionLogStorage interface {
	InsertActionLog(ctx context.Context, accountID, message string) error
}

// WeddingStorage is the storage surface of the CRUD consumers.
type WeddingStorage interface {
	GiftStorage
	MessageStorage
	ParticipationStorage
	ActionLogStorage
}

// ============================================
// AUTH PORTS (for HTTP adapters)
// ============================================

// RegisterInput is the payload for local account registration.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// LoginInput is the payload for password sign-in.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthProvider provides authentication operations for HTTP adapters.
type AuthProvider interface {
	Register(ctx context.Context, input RegisterInput) (*Account, error)
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accountID string) error
	AccountInfo(ctx context.Context, accountID string) (*Account, error)
}

// TokenValidator verifies bearer access tokens for protected routes.
// Validation is stateless: no storage access is permitted.
type TokenValidator interface {
	Validate(token string) (accountID string, err error)
}
