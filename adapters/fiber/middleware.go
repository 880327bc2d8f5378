package fiber

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/vs-wedding/backend/core"
)

const accountIDKey = "accountID"

// requireAuth validates the bearer access token and stores the account id
// in the context for downstream handlers. Validation is stateless, so this
// runs on every protected route without touching the database.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": core.ErrMissingAuthHeader.Error(),
		})
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": core.ErrInvalidAuthHeader.Error(),
		})
	}

	accountID, err := a.validator.Validate(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals(accountIDKey, accountID)

	return c.Next()
}

// callerID returns the account id stored by requireAuth.
func callerID(c fiber.Ctx) string {
	id, _ := c.Locals(accountIDKey).(string)
	return id
}
