package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-chat-bot/internal/dialog"
)

var validate = validator.New()

// messageRequest is one inbound webhook event: a user utterance within a
// conversation.
type messageRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
	Text           string `json:"text" validate:"required"`
}

// wireMessage is one outbound message in the webhook response. Type is
// either "text" or "card".
type wireMessage struct {
	ID   string       `json:"id"`
	Type string       `json:"type"`
	Text string       `json:"text,omitempty"`
	Card *dialog.Card `json:"card,omitempty"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *dialog.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/messages", func(c *fiber.Ctx) error {
		var req messageRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		fx, err := service.HandleMessage(c.UserContext(), req.ConversationID, req.Text)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to process message")
		}

		messages := make([]wireMessage, 0, len(fx))
		for _, e := range fx {
			m := wireMessage{ID: uuid.NewString()}
			if e.Card != nil {
				m.Type = "card"
				m.Card = e.Card
			} else {
				m.Type = "text"
				m.Text = e.Text
			}
			messages = append(messages, m)
		}

		return c.JSON(fiber.Map{
			"conversationId": req.ConversationID,
			"messages":       messages,
		})
	})
}
