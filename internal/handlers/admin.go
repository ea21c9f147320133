package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/queue"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
)

type ContentLister interface {
	List(ctx context.Context, filter repository.ContentFilter) ([]models.ContentItem, error)
}

type LogCounter interface {
	Count(ctx context.Context) (int64, error)
}

type AdminHandler struct {
	contents ContentLister
	logs     LogCounter
	warmup   queue.WarmupQueue
}

func NewAdminHandler(contents ContentLister, logs LogCounter, warmup queue.WarmupQueue) *AdminHandler {
	return &AdminHandler{contents: contents, logs: logs, warmup: warmup}
}

// GetQueueStats summarizes the moderation backlog and warm-up queue.
func (h *AdminHandler) GetQueueStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var warmupLength int64
	if h.warmup != nil {
		n, err := h.warmup.Len(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to get queue length",
				"details": err.Error(),
			})
		}
		warmupLength = n
	}

	items, err := h.contents.List(ctx, repository.ContentFilter{})
	if err != nil {
		return respondError(c, "Failed to fetch content", err)
	}
	byStatus := map[models.ModerationStatus]int{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
		models.StatusFlagged:  0,
	}
	for _, item := range items {
		byStatus[item.Status]++
	}

	totalLogs, err := h.logs.Count(ctx)
	if err != nil {
		return respondError(c, "Failed to count moderation logs", err)
	}

	return c.JSON(fiber.Map{
		"queue": fiber.Map{
			"pending_content":    byStatus[models.StatusPending],
			"translation_warmup": warmupLength,
		},
		"content":         byStatus,
		"moderation_logs": totalLogs,
		"timestamp":       time.Now(),
	})
}
