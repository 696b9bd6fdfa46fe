package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/society-api/internal/api/dto"
	"github.com/spec-kit/society-api/internal/service"
)

// RegistrationsHandler exposes the membership inquiry form.
type RegistrationsHandler struct {
	registrations *service.RegistrationService
}

func NewRegistrationsHandler(registrations *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{registrations: registrations}
}

// Create handles POST /api/registrations.
func (h *RegistrationsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRegistrationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	reg, err := h.registrations.Create(c.UserContext(), service.RegistrationInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Registration saved successfully", fiber.Map{"registration": dto.NewRegistrationResponse(reg)})
}

// List handles GET /api/registrations.
func (h *RegistrationsHandler) List(c *fiber.Ctx) error {
	list, err := h.registrations.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Registrations retrieved", fiber.Map{
		"count":         len(list),
		"registrations": dto.NewRegistrationList(list),
	})
}

// Get handles GET /api/registrations/:id.
func (h *RegistrationsHandler) Get(c *fiber.Ctx) error {
	reg, err := h.registrations.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Registration retrieved", fiber.Map{"registration": dto.NewRegistrationResponse(reg)})
}

// Update handles PUT /api/registrations/:id.
func (h *RegistrationsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateRegistrationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	reg, err := h.registrations.Update(c.UserContext(), c.Params("id"), service.RegistrationPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Registration updated", fiber.Map{"registration": dto.NewRegistrationResponse(reg)})
}

// Delete handles DELETE /api/registrations/:id.
func (h *RegistrationsHandler) Delete(c *fiber.Ctx) error {
	if err := h.registrations.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Registration deleted", nil)
}
