package fiber

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/vs-wedding/backend/core"
)

func (a *Adapter) listGifts(c fiber.Ctx) error {
	gifts, err := a.gifts.List(c.Context())
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(gifts)
}

func (a *Adapter) lockGift(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid gift id"})
	}

	if err := a.gifts.Lock(c.Context(), id, callerID(c)); err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "gift locked"})
}

func (a *Adapter) unlockGift(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid gift id"})
	}

	if err := a.gifts.Unlock(c.Context(), id, callerID(c)); err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "gift unlocked"})
}

func (a *Adapter) listMessages(c fiber.Ctx) error {
	messages, err := a.messages.List(c.Context())
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(messages)
}

type createMessageRequest struct {
	Message    string `json:"message"`
	AuthorName string `json:"authorName"`
}

func (a *Adapter) createMessage(c fiber.Ctx) error {
	var input createMessageRequest
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	account, err := a.auth.AccountInfo(c.Context(), callerID(c))
	if err != nil {
		return a.handleError(c, err)
	}

	message, err := a.messages.Create(c.Context(), account, input.Message, input.AuthorName)
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(message)
}

func (a *Adapter) listParticipations(c fiber.Ctx) error {
	participations, err := a.participations.List(c.Context(), callerID(c))
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(participations)
}

type participationRequest struct {
	ParticipantFullName string `json:"participantFullName"`
	AgeCategory         int    `json:"ageCategory"`
	Present             bool   `json:"present"`
	Notes               string `json:"notes"`
}

func (a *Adapter) createParticipation(c fiber.Ctx) error {
	var input participationRequest
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	participation, err := a.participations.Create(c.Context(), callerID(c), &core.Participation{
		FullName:    input.ParticipantFullName,
		AgeCategory: input.AgeCategory,
		Present:     input.Present,
		Notes:       input.Notes,
	})
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(participation)
}

func (a *Adapter) updateParticipation(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid participation id"})
	}

	var input participationRequest
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	participation, err := a.participations.Update(c.Context(), callerID(c), &core.Participation{
		ID:          id,
		FullName:    input.ParticipantFullName,
		AgeCategory: input.AgeCategory,
		Present:     input.Present,
		Notes:       input.Notes,
	})
	if err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(participation)
}

func (a *Adapter) deleteParticipation(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid participation id"})
	}

	if err := a.participations.Delete(c.Context(), callerID(c), id); err != nil {
		return a.handleError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "participation deleted"})
}
