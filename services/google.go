package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/vs-wedding/backend/core"
)

const (
	googleProviderName = "google"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// OAuthProvider is the handshake surface the HTTP layer depends on, so the
// callback handler can be exercised without talking to Google.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, token *oauth2.Token) (*core.ProviderClaims, error)
}

// GoogleProvider exchanges authorization codes against Google's token
// endpoint and fetches the user-info claims. Every outbound call carries a
// timeout; timeouts and non-2xx responses surface as ErrProviderUnavailable.
type GoogleProvider struct {
	conf        *oauth2.Config
	timeout     time.Duration
	userInfoURL string
}

var _ OAuthProvider = (*GoogleProvider)(nil)

func NewGoogleProvider(clientID, clientSecret, redirectURL string, timeout time.Duration) *GoogleProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		timeout:     timeout,
		userInfoURL: googleUserInfoURL,
	}
}

// AuthCodeURL builds the Google authorization redirect. The state value
// round-trips the caller's intended post-login destination.
func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.conf.AuthCodeURL(state)
}

// Exchange trades the callback code for provider tokens.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", core.ErrProviderUnavailable, err)
	}
	return token, nil
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// UserInfo fetches the provider's profile claims for the authenticated
// user. A missing email claim is not an error here; the resolver decides
// what to do with incomplete claims.
func (g *GoogleProvider) UserInfo(ctx context.Context, token *oauth2.Token) (*core.ProviderClaims, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user info request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: user info: %v", core.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: user info returned %d", core.ErrProviderUnavailable, resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode user info: %v", core.ErrProviderUnavailable, err)
	}

	return &core.ProviderClaims{
		Provider:    googleProviderName,
		SubjectID:   info.ID,
		Email:       info.Email,
		DisplayName: info.Name,
	}, nil
}
