package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/middleware"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/audit"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/moderation"
)

type ModerationHandler struct {
	moderation *moderation.Service
	audit      *audit.Service
}

func NewModerationHandler(moderation *moderation.Service, audit *audit.Service) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, audit: audit}
}

type decisionRequest struct {
	Notes   string `json:"notes"`
	Warning string `json:"warning"`
}

func (h *ModerationHandler) GetQueue(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	items, err := h.moderation.Queue(c.UserContext(), middleware.CurrentUser(c), page)
	if err != nil {
		return respondError(c, "Failed to fetch moderation queue", err)
	}
	return c.JSON(fiber.Map{
		"content": items,
		"limit":   page.Limit,
		"offset":  page.Offset,
	})
}

type decideFunc func(c *fiber.Ctx, req decisionRequest) (moderation.Result, error)

func decision(fn decideFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req decisionRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return badRequest(c, err)
			}
		}
		res, err := fn(c, req)
		if err != nil {
			return respondError(c, "Moderation action failed", err)
		}
		return c.JSON(res)
	}
}

func (h *ModerationHandler) Approve() fiber.Handler {
	return decision(func(c *fiber.Ctx, req decisionRequest) (moderation.Result, error) {
		return h.moderation.Approve(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), req.Notes)
	})
}

func (h *ModerationHandler) Reject() fiber.Handler {
	return decision(func(c *fiber.Ctx, req decisionRequest) (moderation.Result, error) {
		return h.moderation.Reject(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), req.Notes)
	})
}

func (h *ModerationHandler) Flag() fiber.Handler {
	return decision(func(c *fiber.Ctx, req decisionRequest) (moderation.Result, error) {
		return h.moderation.Flag(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), req.Notes)
	})
}

func (h *ModerationHandler) Warn() fiber.Handler {
	return decision(func(c *fiber.Ctx, req decisionRequest) (moderation.Result, error) {
		return h.moderation.ApproveWithWarning(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), req.Warning)
	})
}

func (h *ModerationHandler) GetLogs(c *fiber.Ctx) error {
	listing, err := h.audit.List(c.UserContext(), middleware.CurrentUser(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, "Failed to fetch moderation logs", err)
	}
	return c.JSON(listing)
}

func (h *ModerationHandler) ExportLogs(c *fiber.Ctx) error {
	key, err := h.audit.Export(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, "Failed to export moderation logs", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key})
}
