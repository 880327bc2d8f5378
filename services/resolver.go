package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vs-wedding/backend/core"
	"github.com/vs-wedding/backend/pkg/crypto"
)

// Outcome names the terminal state of one identity resolution.
type Outcome string

const (
	// OutcomeSignedIn: an existing linked identity matched.
	OutcomeSignedIn Outcome = "signed_in"
	// OutcomeLinked: an existing account matched by email and gained the
	// provider identity.
	OutcomeLinked Outcome = "linked"
	// OutcomeProvisioned: a brand new account was created for the identity.
	OutcomeProvisioned Outcome = "provisioned"
	// OutcomeFailed: no account was signed in.
	OutcomeFailed Outcome = "failed"
)

// IdentityResolver reconciles a provider-verified identity with the local
// account base. Given the claims of one successful external authentication
// it either signs in the already-linked account, links the identity to an
// account matched by email, or provisions a new account.
//
// Concurrent callbacks for the same identity are resolved through the
// store's uniqueness constraints: a duplicate-key conflict means another
// invocation just created the row, so the resolver re-reads it and proceeds
// instead of failing the flow.
type IdentityResolver struct {
	store  core.AuthStorage
	ids    *crypto.NanoIDGenerator
	logger *zap.Logger
}

func NewIdentityResolver(store core.AuthStorage, ids *crypto.NanoIDGenerator, logger *zap.Logger) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityResolver{store: store, ids: ids, logger: logger}
}

// Resolve executes the decision procedure. The three lookups run strictly
// in order and short-circuit on the first match:
//
//  1. linked identity for (provider, subject) exists -> sign in its owner
//  2. account with the claimed email exists          -> link, then sign in
//  3. otherwise                                      -> provision account + link
//
// On any error no account is signed in and the returned outcome is
// OutcomeFailed.
func (r *IdentityResolver) Resolve(ctx context.Context, claims core.ProviderClaims) (*core.Account, Outcome, error) {
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, OutcomeFailed, core.ErrNoEmail
	}

	// 1. Lookup by link
	identity, err := r.store.GetLinkedIdentity(ctx, claims.Provider, claims.SubjectID)
	if err == nil {
		account, err := r.store.GetAccountByID(ctx, identity.AccountID)
		if err != nil {
			return nil, OutcomeFailed, fmt.Errorf("failed to load linked account: %w", err)
		}
		return account, OutcomeSignedIn, nil
	}
	if !errors.Is(err, core.ErrIdentityNotFound) {
		return nil, OutcomeFailed, fmt.Errorf("failed to look up linked identity: %w", err)
	}

	// 2. Lookup by email
	account, err := r.store.GetAccountByEmail(ctx, email)
	if err == nil {
		linked, err := r.link(ctx, account, claims)
		if err != nil {
			return nil, OutcomeFailed, err
		}
		return linked, OutcomeLinked, nil
	}
	if !errors.Is(err, core.ErrAccountNotFound) {
		return nil, OutcomeFailed, fmt.Errorf("failed to look up account by email: %w", err)
	}

	// 3. Provision
	account, err = r.provision(ctx, email, claims)
	if err != nil {
		return nil, OutcomeFailed, err
	}
	return account, OutcomeProvisioned, nil
}

// link binds the provider identity to an existing account. A duplicate-key
// conflict means a concurrent callback already created the link; the winner
// row is re-read and its owner signed in.
func (r *IdentityResolver) link(ctx context.Context, account *core.Account, claims core.ProviderClaims) (*core.Account, error) {
	err := r.store.CreateLinkedIdentity(ctx, &core.LinkedIdentity{
		Provider:  claims.Provider,
		SubjectID: claims.SubjectID,
		AccountID: account.ID,
	})
	if err == nil {
		r.logger.Info("linked provider identity to existing account",
			zap.String("provider", claims.Provider),
			zap.String("account_id", account.ID))
		return account, nil
	}

	if errors.Is(err, core.ErrDuplicate) {
		if winner, rerr := r.ownerOfIdentity(ctx, claims); rerr == nil {
			return winner, nil
		}
	}

	r.logger.Error("failed to link provider identity",
		zap.String("provider", claims.Provider),
		zap.String("account_id", account.ID),
		zap.Error(err))
	return nil, core.ErrLinkFailed
}

// provision creates a new account for the identity and links it. If the
// link step fails the just-created account is deleted again, so a partial
// identity is never left visible to subsequent logins.
func (r *IdentityResolver) provision(ctx context.Context, email string, claims core.ProviderClaims) (*core.Account, error) {
	id, err := r.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account id: %w", err)
	}

	account := &core.Account{
		ID:             id,
		Email:          email,
		EmailConfirmed: true, // the provider already verified the address
		FullName:       displayName(claims.DisplayName, email),
	}

	if err := r.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, core.ErrDuplicate) {
			// Lost a race on the email constraint: the account now exists,
			// fall back to linking it.
			if existing, rerr := r.store.GetAccountByEmail(ctx, email); rerr == nil {
				return r.link(ctx, existing, claims)
			}
		}
		r.logger.Error("failed to provision account",
			zap.String("provider", claims.Provider),
			zap.Error(err))
		return nil, core.ErrProvisionFailed
	}

	if err := r.store.CreateLinkedIdentity(ctx, &core.LinkedIdentity{
		Provider:  claims.Provider,
		SubjectID: claims.SubjectID,
		AccountID: account.ID,
	}); err != nil {
		// Compensate: without a login method the fresh account would be an
		// unreachable orphan.
		if derr := r.store.DeleteAccount(ctx, account.ID); derr != nil {
			r.logger.Error("failed to delete orphaned account",
				zap.String("account_id", account.ID),
				zap.Error(derr))
		}

		if errors.Is(err, core.ErrDuplicate) {
			// A concurrent callback linked the same subject first.
			if winner, rerr := r.ownerOfIdentity(ctx, claims); rerr == nil {
				return winner, nil
			}
		}

		r.logger.Error("failed to link provisioned account",
			zap.String("provider", claims.Provider),
			zap.Error(err))
		return nil, core.ErrProvisionFailed
	}

	r.logger.Info("provisioned account for provider identity",
		zap.String("provider", claims.Provider),
		zap.String("account_id", account.ID))
	return account, nil
}

func (r *IdentityResolver) ownerOfIdentity(ctx context.Context, claims core.ProviderClaims) (*core.Account, error) {
	identity, err := r.store.GetLinkedIdentity(ctx, claims.Provider, claims.SubjectID)
	if err != nil {
		return nil, err
	}
	return r.store.GetAccountByID(ctx, identity.AccountID)
}

// displayName prefers the provider's display name and falls back to the
// local part of the email.
func displayName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
