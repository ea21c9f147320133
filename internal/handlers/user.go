package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/middleware"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services/users"
)

type UserHandler struct {
	users *users.Service
}

func NewUserHandler(users *users.Service) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

func (h *UserHandler) UpdateLanguage(c *fiber.Ctx) error {
	var req struct {
		Language string `json:"language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	user, err := h.users.UpdateLanguage(c.UserContext(), middleware.CurrentUser(c).ID, req.Language)
	if err != nil {
		return respondError(c, "Failed to update language", err)
	}
	return c.JSON(user)
}

// GetAllUsers lists accounts for admins, newest first.
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.users.List(c.UserContext(), middleware.CurrentUser(c), page)
	if err != nil {
		return respondError(c, "Failed to fetch users", err)
	}
	return c.JSON(fiber.Map{
		"users":  list,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// ToggleSuspension flips the suspension flag, or sets it when the body
// carries {"suspended": bool}.
func (h *UserHandler) ToggleSuspension(c *fiber.Ctx) error {
	var req struct {
		Suspended *bool `json:"suspended"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
	}

	actor := middleware.CurrentUser(c)
	var (
		updated models.User
		err     error
	)
	if req.Suspended != nil {
		updated, err = h.users.SetSuspended(c.UserContext(), actor, c.Params("id"), *req.Suspended)
	} else {
		updated, err = h.users.ToggleSuspension(c.UserContext(), actor, c.Params("id"))
	}
	if err != nil {
		return respondError(c, "Failed to update suspension", err)
	}
	return c.JSON(updated)
}

// pageFromQuery reads ?page=&limit= the way the listings always have.
func pageFromQuery(c *fiber.Ctx) repository.Page {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	p := repository.Page{Limit: c.QueryInt("limit", repository.DefaultPageLimit)}.Normalize()
	p.Offset = (page - 1) * p.Limit
	return p
}
