package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/society-api/internal/api/dto"
	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
	"github.com/spec-kit/society-api/internal/service"
)

// AnnouncementsHandler exposes the news feed.
type AnnouncementsHandler struct {
	announcements *service.AnnouncementService
}

func NewAnnouncementsHandler(announcements *service.AnnouncementService) *AnnouncementsHandler {
	return &AnnouncementsHandler{announcements: announcements}
}

// List handles GET /api/announcements?category=&isPinned=.
func (h *AnnouncementsHandler) List(c *fiber.Ctx) error {
	filter := repository.AnnouncementFilter{Category: queryEnum[domain.AnnouncementCategory](c, "category")}
	if pinned := queryBool(c, "isPinned"); pinned != nil && *pinned {
		filter.PinnedOnly = true
	}
	list, err := h.announcements.List(c.UserContext(), actor(c), filter)
	if err != nil {
		return err
	}
	return h.list(c, list)
}

// ListAll handles GET /api/announcements/admin/all.
func (h *AnnouncementsHandler) ListAll(c *fiber.Ctx) error {
	list, err := h.announcements.ListAll(c.UserContext(), queryEnum[domain.AnnouncementCategory](c, "category"))
	if err != nil {
		return err
	}
	return h.list(c, list)
}

func (h *AnnouncementsHandler) list(c *fiber.Ctx, list []domain.Announcement) error {
	return respond(c, fiber.StatusOK, "Announcements retrieved successfully", fiber.Map{
		"count":         len(list),
		"announcements": dto.NewAnnouncementList(list),
	})
}

// Get handles GET /api/announcements/:id.
func (h *AnnouncementsHandler) Get(c *fiber.Ctx) error {
	a, err := h.announcements.Get(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusOK, "Announcement retrieved successfully", a)
}

// Create handles POST /api/announcements.
func (h *AnnouncementsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAnnouncementRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.announcements.Create(c.UserContext(), actor(c), service.AnnouncementInput{
		Title:       req.Title,
		Content:     req.Content,
		Category:    domain.AnnouncementCategory(req.Category),
		Image:       req.Image,
		IsPinned:    req.IsPinned,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusCreated, "Announcement created successfully", a)
}

// Update handles PUT /api/announcements/:id.
func (h *AnnouncementsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateAnnouncementRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.announcements.Update(c.UserContext(), actor(c), c.Params("id"), service.AnnouncementPatch{
		Title:       req.Title,
		Content:     req.Content,
		Category:    enumPtr[domain.AnnouncementCategory](req.Category),
		Image:       req.Image,
		IsPinned:    req.IsPinned,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusOK, "Announcement updated successfully", a)
}

// Delete handles DELETE /api/announcements/:id.
func (h *AnnouncementsHandler) Delete(c *fiber.Ctx) error {
	if err := h.announcements.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Announcement deleted successfully", nil)
}

// TogglePin handles PATCH /api/announcements/:id/toggle-pin.
func (h *AnnouncementsHandler) TogglePin(c *fiber.Ctx) error {
	a, err := h.announcements.TogglePin(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusOK, "Announcement pin status updated successfully", a)
}

// TogglePublish handles PATCH /api/announcements/:id/toggle-publish.
func (h *AnnouncementsHandler) TogglePublish(c *fiber.Ctx) error {
	a, err := h.announcements.TogglePublish(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusOK, "Announcement publish status updated successfully", a)
}

func (h *AnnouncementsHandler) one(c *fiber.Ctx, status int, message string, a *domain.Announcement) error {
	return respond(c, status, message, fiber.Map{"announcement": dto.NewAnnouncementResponse(a)})
}
