package services

import (
	"context"
	"sync"

	"github.com/vs-wedding/backend/core"
)

// FakeAuthStorage is a test-only in-memory implementation of
// core.AuthStorage. It enforces the same uniqueness constraints as the
// Postgres adapter and exposes error fields for behavior injection.
type FakeAuthStorage struct {
	mu         sync.RWMutex
	accounts   map[string]*core.Account        // keyed by id
	identities map[string]*core.LinkedIdentity // keyed by provider + "\x00" + subject
	tokens     map[string]*core.RefreshToken   // keyed by token hash

	createAccountErr  error
	createIdentityErr error
	deleteAccountErr  error
	replaceTokensErr  error
	getTokenErr       error
	deleteTokensErr   error
}

var _ core.AuthStorage = (*FakeAuthStorage)(nil)

func NewFakeAuthStorage() *FakeAuthStorage {
	return &FakeAuthStorage{
		accounts:   make(map[string]*core.Account),
		identities: make(map[string]*core.LinkedIdentity),
		tokens:     make(map[string]*core.RefreshToken),
	}
}

func identityKey(provider, subjectID string) string {
	return provider + "\x00" + subjectID
}

func (f *FakeAuthStorage) CreateAccount(_ context.Context, a *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAccountErr != nil {
		return f.createAccountErr
	}
	for _, existing := range f.accounts {
		if existing.Email == a.Email {
			return core.ErrDuplicate
		}
	}
	if _, ok := f.accounts[a.ID]; ok {
		return core.ErrDuplicate
	}
	clone := *a
	f.accounts[a.ID] = &clone
	return nil
}

func (f *FakeAuthStorage) GetAccountByID(_ context.Context, id string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (f *FakeAuthStorage) GetAccountByEmail(_ context.Context, email string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, a := range f.accounts {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, core.ErrAccountNotFound
}

func (f *FakeAuthStorage) DeleteAccount(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteAccountErr != nil {
		return f.deleteAccountErr
	}
	delete(f.accounts, id)
	return nil
}

func (f *FakeAuthStorage) CreateLinkedIdentity(_ context.Context, li *core.LinkedIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createIdentityErr != nil {
		return f.createIdentityErr
	}
	key := identityKey(li.Provider, li.SubjectID)
	if _, ok := f.identities[key]; ok {
		return core.ErrDuplicate
	}
	clone := *li
	f.identities[key] = &clone
	return nil
}

func (f *FakeAuthStorage) GetLinkedIdentity(_ context.Context, provider, subjectID string) (*core.LinkedIdentity, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	li, ok := f.identities[identityKey(provider, subjectID)]
	if !ok {
		return nil, core.ErrIdentityNotFound
	}
	clone := *li
	return &clone, nil
}

func (f *FakeAuthStorage) ReplaceRefreshTokens(_ context.Context, accountID string, t *core.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceTokensErr != nil {
		return f.replaceTokensErr
	}
	for hash, existing := range f.tokens {
		if existing.AccountID == accountID {
			delete(f.tokens, hash)
		}
	}
	clone := *t
	f.tokens[t.TokenHash] = &clone
	return nil
}

func (f *FakeAuthStorage) GetRefreshTokenByHash(_ context.Context, tokenHash string) (*core.RefreshToken, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getTokenErr != nil {
		return nil, f.getTokenErr
	}
	t, ok := f.tokens[tokenHash]
	if !ok {
		return nil, core.ErrRefreshTokenNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *FakeAuthStorage) DeleteRefreshTokens(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteTokensErr != nil {
		return f.deleteTokensErr
	}
	for hash, t := range f.tokens {
		if t.AccountID == accountID {
			delete(f.tokens, hash)
		}
	}
	return nil
}

// AccountCount reports how many accounts exist, for duplicate-prevention
// assertions.
func (f *FakeAuthStorage) AccountCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.accounts)
}

// IdentityCount reports how many linked identities exist.
func (f *FakeAuthStorage) IdentityCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.identities)
}

// TokenCount reports how many refresh tokens exist.
func (f *FakeAuthStorage) TokenCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tokens)
}

// FakeWeddingStorage is a test-only in-memory implementation of
// core.WeddingStorage.
type FakeWeddingStorage struct {
	mu             sync.Mutex
	gifts          map[int64]*core.Gift
	messages       []*core.Message
	participations map[int64]*core.Participation
	actionLogs     []string
	nextID         int64

	actionLogErr error
}

var _ core.WeddingStorage = (*FakeWeddingStorage)(nil)

func NewFakeWeddingStorage() *FakeWeddingStorage {
	return &FakeWeddingStorage{
		gifts:          make(map[int64]*core.Gift),
		participations: make(map[int64]*core.Participation),
		nextID:         1,
	}
}

func (f *FakeWeddingStorage) AddGift(g *core.Gift) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g.ID == 0 {
		g.ID = f.nextID
		f.nextID++
	}
	f.gifts[g.ID] = g
}

func (f *FakeWeddingStorage) ListGifts(context.Context) ([]*core.Gift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gifts := make([]*core.Gift, 0, len(f.gifts))
	for _, g := range f.gifts {
		gifts = append(gifts, g)
	}
	return gifts, nil
}

func (f *FakeWeddingStorage) GetGiftByID(_ context.Context, id int64) (*core.Gift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gifts[id]
	if !ok {
		return nil, core.ErrGiftNotFound
	}
	return g, nil
}

func (f *FakeWeddingStorage) LockGift(_ context.Context, id int64, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gifts[id]
	if !ok {
		return core.ErrGiftNotFound
	}
	if g.AccountID != nil {
		return core.ErrGiftTaken
	}
	g.AccountID = &accountID
	return nil
}

func (f *FakeWeddingStorage) UnlockGift(_ context.Context, id int64, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gifts[id]
	if !ok {
		return core.ErrGiftNotFound
	}
	if g.AccountID == nil || *g.AccountID != accountID {
		return core.ErrGiftNotOwned
	}
	g.AccountID = nil
	return nil
}

func (f *FakeWeddingStorage) ListMessages(context.Context) ([]*core.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*core.Message(nil), f.messages...), nil
}

func (f *FakeWeddingStorage) CreateMessage(_ context.Context, m *core.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.nextID
	f.nextID++
	f.messages = append(f.messages, m)
	return nil
}

func (f *FakeWeddingStorage) ListParticipations(_ context.Context, accountID string) ([]*core.Participation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*core.Participation
	for _, p := range f.participations {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeWeddingStorage) CreateParticipation(_ context.Context, p *core.Participation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID
	f.nextID++
	clone := *p
	f.participations[p.ID] = &clone
	return nil
}

func (f *FakeWeddingStorage) UpdateParticipation(_ context.Context, p *core.Participation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.participations[p.ID]
	if !ok || existing.AccountID != p.AccountID {
		return core.ErrParticipationNotFound
	}
	clone := *p
	clone.CreatedAt = existing.CreatedAt
	f.participations[p.ID] = &clone
	return nil
}

func (f *FakeWeddingStorage) DeleteParticipation(_ context.Context, accountID string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.participations[id]
	if !ok || existing.AccountID != accountID {
		return core.ErrParticipationNotFound
	}
	delete(f.participations, id)
	return nil
}

func (f *FakeWeddingStorage) InsertActionLog(_ context.Context, accountID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionLogErr != nil {
		return f.actionLogErr
	}
	f.actionLogs = append(f.actionLogs, accountID+": "+message)
	return nil
}
