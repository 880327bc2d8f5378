package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/vs-wedding/backend/core"
)

func googleClaims() core.ProviderClaims {
	return core.ProviderClaims{
		Provider:    "google",
		SubjectID:   "sub-123",
		Email:       "Guest@Example.com",
		DisplayName: "Guest Name",
	}
}

func newTestResolver(t *testing.T, store *FakeAuthStorage) *IdentityResolver {
	t.Helper()
	ids, err := newTestIDs()
	if err != nil {
		t.Fatalf("nanoid: %v", err)
	}
	return NewIdentityResolver(store, ids, zap.NewNop())
}

func TestResolveProvisionsNewAccount(t *testing.T) {
	store := NewFakeAuthStorage()
	resolver := newTestResolver(t, store)

	account, outcome, err := resolver.Resolve(context.Background(), googleClaims())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if outcome != OutcomeProvisioned {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeProvisioned)
	}
	if account.Email != "guest@example.com" {
		t.Errorf("email = %q, want lowercased claim email", account.Email)
	}
	if !account.EmailConfirmed {
		t.Error("provisioned account should have a confirmed email")
	}
	if account.FullName != "Guest Name" {
		t.Errorf("full name = %q, want %q", account.FullName, "Guest Name")
	}
	if account.PasswordHash != nil {
		t.Error("provisioned account must not carry a password hash")
	}
	if store.AccountCount() != 1 || store.IdentityCount() != 1 {
		t.Errorf("accounts = %d identities = %d, want exactly one of each",
			store.AccountCount(), store.IdentityCount())
	}
}

func TestResolveSignsInLinkedAccount(t *testing.T) {
	store := NewFakeAuthStorage()
	resolver := newTestResolver(t, store)
	ctx := context.Background()

	first, _, err := resolver.Resolve(ctx, googleClaims())
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}

	second, outcome, err := resolver.Resolve(ctx, googleClaims())
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if outcome != OutcomeSignedIn {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeSignedIn)
	}
	if second.ID != first.ID {
		t.Errorf("account id = %q, want %q", second.ID, first.ID)
	}
	if store.AccountCount() != 1 || store.IdentityCount() != 1 {
		t.Errorf("repeat sign-in created rows: accounts = %d identities = %d",
			store.AccountCount(), store.IdentityCount())
	}
}

func TestResolveLinksExistingLocalAccount(t *testing.T) {
	store := NewFakeAuthStorage()
	resolver := newTestResolver(t, store)
	ctx := context.Background()

	hash := "argon2-hash"
	local := &core.Account{
		ID:           "local-1",
		Email:        "guest@example.com",
		FullName:     "Local Guest",
		PasswordHash: &hash,
	}
	if err := store.CreateAccount(ctx, local); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	account, outcome, err := resolver.Resolve(ctx, googleClaims())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if outcome != OutcomeLinked {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeLinked)
	}
	if account.ID != local.ID {
		t.Errorf("account id = %q, want existing local account %q", account.ID, local.ID)
	}
	if store.AccountCount() != 1 {
		t.Errorf("accounts = %d, want 1 (no second account for the same email)", store.AccountCount())
	}

	identity, err := store.GetLinkedIdentity(ctx, "google", "sub-123")
	if err != nil {
		t.Fatalf("GetLinkedIdentity() error = %v", err)
	}
	if identity.AccountID != local.ID {
		t.Errorf("identity owner = %q, want %q", identity.AccountID, local.ID)
	}
}

func TestResolveRejectsMissingEmail(t *testing.T) {
	store := NewFakeAuthStorage()
	resolver := newTestResolver(t, store)

	claims := googleClaims()
	claims.Email = "   "

	_, outcome, err := resolver.Resolve(context.Background(), claims)
	if !errors.Is(err, core.ErrNoEmail) {
		t.Fatalf("Resolve() error = %v, want ErrNoEmail", err)
	}
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeFailed)
	}
	if store.AccountCount() != 0 {
		t.Errorf("accounts = %d, want 0", store.AccountCount())
	}
}

func TestResolveCompensatesFailedLink(t *testing.T) {
	store := NewFakeAuthStorage()
	store.createIdentityErr = errors.New("connection reset")
	resolver := newTestResolver(t, store)

	_, outcome, err := resolver.Resolve(context.Background(), googleClaims())
	if !errors.Is(err, core.ErrProvisionFailed) {
		t.Fatalf("Resolve() error = %v, want ErrProvisionFailed", err)
	}
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeFailed)
	}
	if store.AccountCount() != 0 {
		t.Errorf("accounts = %d, want 0 (orphan must be deleted)", store.AccountCount())
	}
}

func TestResolveProvisionStoreFailure(t *testing.T) {
	store := NewFakeAuthStorage()
	store.createAccountErr = errors.New("connection reset")
	resolver := newTestResolver(t, store)

	_, outcome, err := resolver.Resolve(context.Background(), googleClaims())
	if !errors.Is(err, core.ErrProvisionFailed) {
		t.Fatalf("Resolve() error = %v, want ErrProvisionFailed", err)
	}
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeFailed)
	}
}

func TestResolveCompensationDeleteFailure(t *testing.T) {
	store := NewFakeAuthStorage()
	store.createIdentityErr = errors.New("connection reset")
	store.deleteAccountErr = errors.New("connection reset")
	resolver := newTestResolver(t, store)

	// Even when the cleanup delete fails the caller sees a single failure.
	_, _, err := resolver.Resolve(context.Background(), googleClaims())
	if !errors.Is(err, core.ErrProvisionFailed) {
		t.Fatalf("Resolve() error = %v, want ErrProvisionFailed", err)
	}
}

func TestResolveLinkFailureOnExistingAccount(t *testing.T) {
	store := NewFakeAuthStorage()
	resolver := newTestResolver(t, store)
	ctx := context.Background()

	if err := store.CreateAccount(ctx, &core.Account{ID: "local-1", Email: "guest@example.com"}); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	store.createIdentityErr = errors.New("connection reset")

	_, _, err := resolver.Resolve(ctx, googleClaims())
	if !errors.Is(err, core.ErrLinkFailed) {
		t.Fatalf("Resolve() error = %v, want ErrLinkFailed", err)
	}
	if store.AccountCount() != 1 {
		t.Errorf("accounts = %d, want 1 (pre-existing account must survive)", store.AccountCount())
	}
}

func TestResolveDuplicateLinkFallsBackToWinner(t *testing.T) {
	store := NewFakeAuthStorage()
	resolver := newTestResolver(t, store)
	ctx := context.Background()

	// Another callback already linked the subject to its own account.
	winner := &core.Account{ID: "winner-1", Email: "guest@example.com"}
	if err := store.CreateAccount(ctx, winner); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if err := store.CreateLinkedIdentity(ctx, &core.LinkedIdentity{
		Provider:  "google",
		SubjectID: "sub-123",
		AccountID: winner.ID,
	}); err != nil {
		t.Fatalf("CreateLinkedIdentity() error = %v", err)
	}

	// Loser account with a different email races on the identity constraint.
	loser := &core.Account{ID: "loser-1", Email: "other@example.com"}
	if err := store.CreateAccount(ctx, loser); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	account, err := resolver.link(ctx, loser, googleClaims())
	if err != nil {
		t.Fatalf("link() error = %v", err)
	}
	if account.ID != winner.ID {
		t.Errorf("account id = %q, want winner %q", account.ID, winner.ID)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		full  string
		email string
		want  string
	}{
		{"uses provider name", "Guest Name", "guest@example.com", "Guest Name"},
		{"trims provider name", "  Guest  ", "guest@example.com", "Guest"},
		{"falls back to local part", "", "guest@example.com", "guest"},
		{"blank name falls back", "   ", "guest@example.com", "guest"},
		{"email without at sign", "", "guest", "guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayName(tt.full, tt.email); got != tt.want {
				t.Errorf("displayName(%q, %q) = %q, want %q", tt.full, tt.email, got, tt.want)
			}
		})
	}
}
