package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/services"
	"github.com/knayak08/AlumniBridge/internal/utils"
)

// SendMessageHandler persists a message from the authenticated sender and
// echoes the full stored record, server id and timestamp included.
func SendMessageHandler(c *fiber.Ctx) error {
	senderID := c.Locals("user_id").(string)

	var request struct {
		Receiver string `json:"receiver"`
		Content  string `json:"content"`
	}
	if err := c.BodyParser(&request); err != nil {
		return utils.Fail(c, apperr.Validation("Invalid request body"))
	}

	msg, err := services.SendMessage(senderID, request.Receiver, request.Content)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.Created(c, msg)
}

// GetConversationHandler returns the full transcript with one counterpart,
// oldest first.
func GetConversationHandler(c *fiber.Ctx) error {
	selfID := c.Locals("user_id").(string)

	messages, err := services.GetConversation(selfID, c.Params("counterpartId"))
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, messages)
}

// ListConversationsHandler returns the per-counterpart inbox summaries.
func ListConversationsHandler(c *fiber.Ctx) error {
	selfID := c.Locals("user_id").(string)

	conversations, err := services.ListConversations(selfID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, conversations)
}
