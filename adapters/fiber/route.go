package fiber

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/vs-wedding/backend/core"
	"github.com/vs-wedding/backend/services"
)

// identityResolver is the slice of services.IdentityResolver the callback
// handler needs.
type identityResolver interface {
	Resolve(ctx context.Context, claims core.ProviderClaims) (*core.Account, services.Outcome, error)
}

// tokenIssuer mints a credential pair for a resolved account.
type tokenIssuer interface {
	Issue(ctx context.Context, account *core.Account) (*core.TokenPair, error)
}

type Config struct {
	Auth           core.AuthProvider
	Validator      core.TokenValidator
	Resolver       identityResolver
	Issuer         tokenIssuer
	Provider       services.OAuthProvider
	Gifts          *services.GiftService
	Messages       *services.MessageService
	Participations *services.ParticipationService
	FrontendURL    string
	Logger         *zap.Logger
}

type Adapter struct {
	app            *fiber.App
	auth           core.AuthProvider
	validator      core.TokenValidator
	resolver       identityResolver
	issuer         tokenIssuer
	provider       services.OAuthProvider
	gifts          *services.GiftService
	messages       *services.MessageService
	participations *services.ParticipationService
	frontendURL    string
	logger         *zap.Logger
}

func New(app *fiber.App, config Config) *Adapter {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		app:            app,
		auth:           config.Auth,
		validator:      config.Validator,
		resolver:       config.Resolver,
		issuer:         config.Issuer,
		provider:       config.Provider,
		gifts:          config.Gifts,
		messages:       config.Messages,
		participations: config.Participations,
		frontendURL:    config.FrontendURL,
		logger:         logger,
	}
}

func (a *Adapter) RegisterRoutes() {
	// Public auth routes
	a.app.Post("/register", a.register)
	a.app.Post("/login", a.login)
	a.app.Post("/refresh", a.refresh)

	// Protected auth routes
	a.app.Post("/logout", a.requireAuth, a.logout)
	a.app.Get("/me", a.requireAuth, a.accountInfo)

	// OAuth handshake
	a.app.Get("/oauth/google", a.googleLogin)
	a.app.Get("/oauth/callback", a.googleCallback)

	// Gift registry
	a.app.Get("/gifts", a.listGifts)
	a.app.Put("/gifts/:id/lock", a.requireAuth, a.lockGift)
	a.app.Put("/gifts/:id/unlock", a.requireAuth, a.unlockGift)

	// Guestbook
	a.app.Get("/messages", a.listMessages)
	a.app.Post("/messages", a.requireAuth, a.createMessage)

	// RSVP
	a.app.Get("/participations", a.requireAuth, a.listParticipations)
	a.app.Post("/participations", a.requireAuth, a.createParticipation)
	a.app.Put("/participations/:id", a.requireAuth, a.updateParticipation)
	a.app.Delete("/participations/:id", a.requireAuth, a.deleteParticipation)
}
