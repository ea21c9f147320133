package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/middleware"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/assistant"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/translation"
)

type AssistantHandler struct {
	assistant *assistant.Service
}

func NewAssistantHandler(assistant *assistant.Service) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Help always answers 200; model trouble comes back as the apology text.
func (h *AssistantHandler) Help(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	return c.JSON(fiber.Map{
		"reply": h.assistant.Help(c.UserContext(), middleware.CurrentUser(c), req.Query),
	})
}

// GetLabel serves a UI label in ?lang= or the Accept-Language match.
func GetLabel(c *fiber.Ctx) error {
	lang, err := requestLanguage(c, nil)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Unsupported language",
			"details": err.Error(),
		})
	}
	key := c.Params("key")
	return c.JSON(fiber.Map{
		"key":      key,
		"language": lang,
		"label":    translation.Label(key, lang),
	})
}
