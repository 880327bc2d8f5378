package core

import "time"

// Account represents one human actor, independent of any login method.
//
// This is the "identity" - who someone is
type Account struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	EmailConfirmed bool      `json:"emailConfirmed"`
	FullName       string    `json:"fullName"`
	PasswordHash   *string   `json:"-"` // Never expose in JSON. Nil for provider-only accounts.
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// LinkedIdentity binds one external provider credential to an Account.
//
// This is the "credential" - how someone proves who they are
type LinkedIdentity struct {
	Provider  string    `json:"provider"` // "google"
	SubjectID string    `json:"subjectId"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
}

// RefreshToken is one renewable session grant. Only the sha256 hash of the
// client-facing token is persisted; at most one valid row exists per account.
type RefreshToken struct {
	TokenHash string    `json:"-"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenPair is the credential set handed to clients after any successful
// sign-in. ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// ProviderClaims is the normalized profile an external provider hands back
// after authenticating the user. The resolver depends only on this mapping,
// never on a provider SDK type.
type ProviderClaims struct {
	Provider    string
	SubjectID   string
	Email       string
	DisplayName string
}

// Gift is one entry of the gift registry. AccountID is set once a guest
// locks the gift for themselves.
type Gift struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageName   string  `json:"imageName"`
	Cost        string  `json:"cost"`
	AccountID   *string `json:"accountId,omitempty"`
}

// Message is one guestbook entry.
type Message struct {
	ID         int64     `json:"id"`
	AuthorName string    `json:"authorName"`
	Body       string    `json:"message"`
	AccountID  string    `json:"accountId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Participation is one RSVP row, owned by the account that created it.
type Participation struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"participantFullName"`
	AgeCategory int       `json:"ageCategory"`
	Present     bool      `json:"present"`
	Notes       string    `json:"notes"`
	AccountID   string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
