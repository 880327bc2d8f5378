package fiber

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/vs-wedding/backend/core"
	"github.com/vs-wedding/backend/services"
)

// multiTokenValidator maps bearer tokens to account ids so tests can act
// as more than one guest.
type multiTokenValidator struct {
	tokens map[string]string
}

func (m *multiTokenValidator) Validate(token string) (string, error) {
	id, ok := m.tokens[token]
	if !ok {
		return "", core.ErrInvalidToken
	}
	return id, nil
}

func TestGiftEndpoints(t *testing.T) {
	store := services.NewFakeWeddingStorage()
	store.AddGift(&core.Gift{Title: "Toaster", Cost: "20"})

	validator := &multiTokenValidator{tokens: map[string]string{
		"token-a": "guest-a",
		"token-b": "guest-b",
	}}
	app := newTestApp(t, Config{
		Validator: validator,
		Gifts:     services.NewGiftService(store, zap.NewNop()),
	})

	// Listing is public.
	resp := doJSON(t, app, http.MethodGet, "/gifts", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /gifts status = %d, want 200", resp.StatusCode)
	}
	var gifts []core.Gift
	if err := json.NewDecoder(resp.Body).Decode(&gifts); err != nil {
		t.Fatalf("decode gifts: %v", err)
	}
	resp.Body.Close()
	if len(gifts) != 1 || gifts[0].Title != "Toaster" {
		t.Fatalf("gifts = %+v, want the seeded toaster", gifts)
	}

	// Locking requires a bearer token.
	resp = doJSON(t, app, http.MethodPut, "/gifts/1/lock", "", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated lock status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPut, "/gifts/1/lock", "", "token-a")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("lock status = %d, want 200", resp.StatusCode)
	}

	// Second guest loses the race.
	resp = doJSON(t, app, http.MethodPut, "/gifts/1/lock", "", "token-b")
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second lock status = %d, want 409", resp.StatusCode)
	}

	// Only the owner can release.
	resp = doJSON(t, app, http.MethodPut, "/gifts/1/unlock", "", "token-b")
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("non-owner unlock status = %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPut, "/gifts/1/unlock", "", "token-a")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("owner unlock status = %d, want 200", resp.StatusCode)
	}

	// Unknown gift ids and malformed ids are client errors.
	resp = doJSON(t, app, http.MethodPut, "/gifts/99/lock", "", "token-a")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown gift status = %d, want 404", resp.StatusCode)
	}
	resp = doJSON(t, app, http.MethodPut, "/gifts/abc/lock", "", "token-a")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, want 400", resp.StatusCode)
	}
}

func TestMessageEndpoints(t *testing.T) {
	store := services.NewFakeWeddingStorage()
	validator := &mockValidator{token: "valid-token", accountID: "guest-a"}
	auth := &mockAuthProvider{accountResult: &core.Account{ID: "guest-a", FullName: "Guest A"}}
	app := newTestApp(t, Config{
		Auth:      auth,
		Validator: validator,
		Messages:  services.NewMessageService(store),
	})

	// Posting requires authentication.
	resp := doJSON(t, app, http.MethodPost, "/messages", `{"message":"congrats!"}`, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated post status = %d, want 401", resp.StatusCode)
	}

	// Author name falls back to the account's full name.
	resp = doJSON(t, app, http.MethodPost, "/messages", `{"message":"congrats!"}`, "valid-token")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("post status = %d, want 201", resp.StatusCode)
	}
	var created core.Message
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	resp.Body.Close()
	if created.AuthorName != "Guest A" {
		t.Errorf("author = %q, want account full name", created.AuthorName)
	}

	// Empty body is rejected.
	resp = doJSON(t, app, http.MethodPost, "/messages", `{"message":"  "}`, "valid-token")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty message status = %d, want 400", resp.StatusCode)
	}

	// Reading the guestbook is public.
	resp = doJSON(t, app, http.MethodGet, "/messages", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /messages status = %d, want 200", resp.StatusCode)
	}
	var messages []core.Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	resp.Body.Close()
	if len(messages) != 1 {
		t.Errorf("messages = %d, want 1", len(messages))
	}
}

func TestParticipationEndpoints(t *testing.T) {
	store := services.NewFakeWeddingStorage()
	validator := &multiTokenValidator{tokens: map[string]string{
		"token-a": "guest-a",
		"token-b": "guest-b",
	}}
	app := newTestApp(t, Config{
		Validator:      validator,
		Participations: services.NewParticipationService(store),
	})

	resp := doJSON(t, app, http.MethodPost, "/participations",
		`{"participantFullName":"Plus One","ageCategory":1,"present":true}`, "token-a")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created core.Participation
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode participation: %v", err)
	}
	resp.Body.Close()

	// Another guest cannot see or edit the row.
	resp = doJSON(t, app, http.MethodGet, "/participations", "", "token-b")
	var otherRows []core.Participation
	if err := json.NewDecoder(resp.Body).Decode(&otherRows); err != nil {
		t.Fatalf("decode participations: %v", err)
	}
	resp.Body.Close()
	if len(otherRows) != 0 {
		t.Errorf("other guest sees %d rows, want 0", len(otherRows))
	}

	resp = doJSON(t, app, http.MethodDelete, "/participations/1", "", "token-b")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-account delete status = %d, want 404", resp.StatusCode)
	}

	// Owner updates and deletes.
	resp = doJSON(t, app, http.MethodPut, "/participations/1",
		`{"participantFullName":"Plus One","present":false,"notes":"vegetarian"}`, "token-a")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("update status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodDelete, "/participations/1", "", "token-a")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d, want 200", resp.StatusCode)
	}
}
