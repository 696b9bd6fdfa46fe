package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/society-api/internal/api/dto"
	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
	"github.com/spec-kit/society-api/internal/service"
)

// TeamMembersHandler exposes the team page.
type TeamMembersHandler struct {
	members *service.TeamMemberService
}

func NewTeamMembersHandler(members *service.TeamMemberService) *TeamMembersHandler {
	return &TeamMembersHandler{members: members}
}

// List handles GET /api/team-members?position=&isActive=.
func (h *TeamMembersHandler) List(c *fiber.Ctx) error {
	list, err := h.members.List(c.UserContext(), actor(c), repository.TeamMemberFilter{
		Position: queryEnum[domain.Position](c, "position"),
		Active:   queryBool(c, "isActive"),
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Team members retrieved successfully", fiber.Map{
		"count":       len(list),
		"teamMembers": dto.NewTeamMemberList(list),
	})
}

// Active handles GET /api/team-members/active.
func (h *TeamMembersHandler) Active(c *fiber.Ctx) error {
	list, err := h.members.Active(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Active team members retrieved successfully", fiber.Map{
		"count":       len(list),
		"teamMembers": dto.NewTeamMemberList(list),
	})
}

// Get handles GET /api/team-members/:id.
func (h *TeamMembersHandler) Get(c *fiber.Ctx) error {
	m, err := h.members.Get(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusOK, "Team member retrieved successfully", m)
}

// Create handles POST /api/team-members.
func (h *TeamMembersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTeamMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	m, err := h.members.Create(c.UserContext(), service.TeamMemberInput{
		Name:        req.Name,
		Email:       req.Email,
		Position:    domain.Position(req.Position),
		Image:       req.Image,
		Bio:         req.Bio,
		Phone:       req.Phone,
		SocialLinks: req.SocialLinks.Links(),
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusCreated, "Team member added successfully", m)
}

// Update handles PUT /api/team-members/:id.
func (h *TeamMembersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTeamMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch := service.TeamMemberPatch{
		Name:     req.Name,
		Email:    req.Email,
		Position: enumPtr[domain.Position](req.Position),
		Image:    req.Image,
		Bio:      req.Bio,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	}
	if req.SocialLinks != nil {
		links := req.SocialLinks.Links()
		patch.SocialLinks = &links
	}
	m, err := h.members.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusOK, "Team member updated successfully", m)
}

// Delete handles DELETE /api/team-members/:id.
func (h *TeamMembersHandler) Delete(c *fiber.Ctx) error {
	if err := h.members.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Team member deleted successfully", nil)
}

// Activate handles PATCH /api/team-members/:id/activate.
func (h *TeamMembersHandler) Activate(c *fiber.Ctx) error {
	m, err := h.members.SetActive(c.UserContext(), c.Params("id"), true)
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusOK, "Team member activated successfully", m)
}

// Deactivate handles PATCH /api/team-members/:id/deactivate.
func (h *TeamMembersHandler) Deactivate(c *fiber.Ctx) error {
	m, err := h.members.SetActive(c.UserContext(), c.Params("id"), false)
	if err != nil {
		return err
	}
	return h.one(c, fiber.StatusOK, "Team member deactivated successfully", m)
}

func (h *TeamMembersHandler) one(c *fiber.Ctx, status int, message string, m *domain.TeamMember) error {
	return respond(c, status, message, fiber.Map{"teamMember": dto.NewTeamMemberResponse(m)})
}
