package fiber

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/vs-wedding/backend/core"
)

func (a *Adapter) register(c fiber.Ctx) error {
	var input core.RegisterInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	account, err := a.auth.Register(c.Context(), input)
	if err != nil {
		return a.handleError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":             account.ID,
		"email":          account.Email,
		"fullName":       account.FullName,
		"emailConfirmed": account.EmailConfirmed,
		"message":        "account registered successfully",
	})
}

func (a *Adapter) login(c fiber.Ctx) error {
	var input core.LoginInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	pair, err := a.auth.Login(c.Context(), input)
	if err != nil {
		return a.handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (a *Adapter) refresh(c fiber.Ctx) error {
	var input refreshRequest
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	pair, err := a.auth.Refresh(c.Context(), input.RefreshToken)
	if err != nil {
		return a.handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(pair)
}

func (a *Adapter) logout(c fiber.Ctx) error {
	if err := a.auth.Logout(c.Context(), callerID(c)); err != nil {
		return a.handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "signed out successfully",
	})
}

func (a *Adapter) accountInfo(c fiber.Ctx) error {
	account, err := a.auth.AccountInfo(c.Context(), callerID(c))
	if err != nil {
		return a.handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(account)
}

// googleLogin redirects the browser to Google's authorization endpoint.
// The caller's intended destination rides along in the state parameter.
func (a *Adapter) googleLogin(c fiber.Ctx) error {
	state := c.Query("returnUrl", a.frontendURL)
	return c.Redirect().To(a.provider.AuthCodeURL(state))
}

// googleCallback finishes the handshake. The caller is a browser
// mid-navigation, so every failure redirects to the frontend with a
// machine-readable error code instead of a JSON error body.
func (a *Adapter) googleCallback(c fiber.Ctx) error {
	returnURL := c.Query("state")
	if returnURL == "" {
		returnURL = a.frontendURL
	}

	if oauthErr := c.Query("error"); oauthErr != "" {
		a.logger.Warn("provider returned error", zap.String("error", oauthErr))
		return a.redirectWithError(c, returnURL, oauthErr)
	}

	code := c.Query("code")
	if code == "" {
		return a.redirectWithError(c, returnURL, "no_code")
	}

	providerToken, err := a.provider.Exchange(c.Context(), code)
	if err != nil {
		a.logger.Error("code exchange failed", zap.Error(err))
		return a.redirectWithError(c, returnURL, "token_exchange_failed")
	}

	claims, err := a.provider.UserInfo(c.Context(), providerToken)
	if err != nil {
		a.logger.Error("user info fetch failed", zap.Error(err))
		return a.redirectWithError(c, returnURL, "user_info_failed")
	}

	account, outcome, err := a.resolver.Resolve(c.Context(), *claims)
	if err != nil {
		a.logger.Error("identity resolution failed", zap.Error(err))
		return a.redirectWithError(c, returnURL, resolveErrorCode(err))
	}

	pair, err := a.issuer.Issue(c.Context(), account)
	if err != nil {
		a.logger.Error("token issuance failed", zap.Error(err))
		return a.redirectWithError(c, returnURL, "authentication_failed")
	}

	a.logger.Info("external sign-in completed",
		zap.String("account_id", account.ID),
		zap.String("outcome", string(outcome)))

	// Hand the pair to the frontend as a fragment so it never reaches
	// server logs on the next request.
	payload, err := json.Marshal(pair)
	if err != nil {
		return a.redirectWithError(c, returnURL, "authentication_failed")
	}

	return c.Redirect().To(returnURL + "#token=" + url.QueryEscape(string(payload)))
}

func (a *Adapter) redirectWithError(c fiber.Ctx, returnURL, code string) error {
	return c.Redirect().To(returnURL + "/login?error=" + url.QueryEscape(code))
}

// resolveErrorCode maps resolver failures to the error codes the frontend
// shows specific messages for.
func resolveErrorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrNoEmail):
		return "email_not_found"
	case errors.Is(err, core.ErrLinkFailed):
		return "link_failed"
	case errors.Is(err, core.ErrProvisionFailed):
		return "create_failed"
	default:
		return "authentication_failed"
	}
}

// handleError maps service errors to HTTP responses.
func (a *Adapter) handleError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps core error types to HTTP status codes.
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrInvalidRefreshToken),
		errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrPasswordTooLong),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrMessageRequired):
		return http.StatusBadRequest

	case errors.Is(err, core.ErrMissingAuthHeader),
		errors.Is(err, core.ErrInvalidAuthHeader),
		errors.Is(err, core.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrAccountNotFound),
		errors.Is(err, core.ErrGiftNotFound),
		errors.Is(err, core.ErrParticipationNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrAccountExists),
		errors.Is(err, core.ErrGiftTaken),
		errors.Is(err, core.ErrGiftNotOwned):
		return http.StatusConflict

	case errors.Is(err, core.ErrProviderUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
