package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/middleware"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/content"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/translation"
)

type ContentHandler struct {
	content *content.Service
}

func NewContentHandler(content *content.Service) *ContentHandler {
	return &ContentHandler{content: content}
}

// ListContent returns what the caller may see. ?type= and ?status= narrow it.
func (h *ContentHandler) ListContent(c *fiber.Ctx) error {
	filter := repository.ContentFilter{
		Type:   models.ContentType(c.Query("type")),
		Status: models.ModerationStatus(c.Query("status")),
	}
	if c.QueryBool("mine", false) {
		filter.CreatorID = middleware.CurrentUser(c).ID
	}
	items, err := h.content.ListVisible(c.UserContext(), middleware.CurrentUser(c), filter)
	if err != nil {
		return respondError(c, "Failed to fetch content", err)
	}
	return c.JSON(fiber.Map{
		"content": items,
		"count":   len(items),
	})
}

func (h *ContentHandler) UploadContent(c *fiber.Ctx) error {
	var req content.UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	item, err := h.content.Upload(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return respondError(c, "Upload failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	item, err := h.content.Get(c.UserContext(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, "Content not found", err)
	}
	return c.JSON(item)
}

// GetLocalized picks the language from ?lang=, then the user's preference,
// then Accept-Language.
func (h *ContentHandler) GetLocalized(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	lang, err := requestLanguage(c, user)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Unsupported language",
			"details": err.Error(),
		})
	}
	localized, err := h.content.Localized(c.UserContext(), user, c.Params("id"), lang)
	if err != nil {
		return respondError(c, "Content not found", err)
	}
	return c.JSON(localized)
}

func (h *ContentHandler) Purchase(c *fiber.Ctx) error {
	user, err := h.content.Purchase(c.UserContext(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, "Purchase failed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Purchase successful",
		"credits": user.Credits,
	})
}

// GetUploadURL presigns a PUT for ?kind=thumbnail|media.
func (h *ContentHandler) GetUploadURL(c *fiber.Ctx) error {
	ticket, err := h.content.UploadURL(c.UserContext(), middleware.CurrentUser(c), c.Query("kind", "media"))
	if err != nil {
		return respondError(c, "Failed to generate upload URL", err)
	}
	return c.JSON(ticket)
}

func requestLanguage(c *fiber.Ctx, user *models.User) (models.LanguageCode, error) {
	if raw := strings.TrimSpace(c.Query("lang")); raw != "" {
		return models.ParseLanguage(raw)
	}
	if user != nil && user.Language != "" {
		return user.Language, nil
	}
	return translation.MatchLanguage(c.Get(fiber.HeaderAcceptLanguage)), nil
}
