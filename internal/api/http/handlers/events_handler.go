package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/society-api/internal/api/dto"
	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/repository"
	"github.com/spec-kit/society-api/internal/service"
)

// EventsHandler exposes event listings and seat bookings.
type EventsHandler struct {
	events *service.EventService
}

func NewEventsHandler(events *service.EventService) *EventsHandler {
	return &EventsHandler{events: events}
}

// List handles GET /api/events?category=&status=.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	list, err := h.events.List(c.UserContext(), repository.EventFilter{
		Category: queryEnum[domain.EventCategory](c, "category"),
		Status:   queryEnum[domain.EventStatus](c, "status"),
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Events retrieved successfully", fiber.Map{
		"count":  len(list),
		"events": dto.NewEventList(list),
	})
}

// MyEvents handles GET /api/events/user/my-events.
func (h *EventsHandler) MyEvents(c *fiber.Ctx) error {
	me, err := mustActor(c)
	if err != nil {
		return err
	}
	list, err := h.events.MyEvents(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "User events retrieved successfully", fiber.Map{
		"count":  len(list),
		"events": dto.NewEventList(list),
	})
}

// Get handles GET /api/events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, err := h.events.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Event retrieved successfully", fiber.Map{"event": dto.NewEventResponse(event)})
}

// QRCode handles GET /api/events/:id/qrcode?size=.
func (h *EventsHandler) QRCode(c *fiber.Ctx) error {
	png, err := h.events.QRCode(c.UserContext(), c.Params("id"), c.QueryInt("size"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Send(png)
}

// Create handles POST /api/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	date, ok := dto.ParseDate(req.Date)
	if !ok {
		return invalidDate()
	}
	event, err := h.events.Create(c.UserContext(), actor(c), service.EventInput{
		Title:           req.Title,
		Description:     req.Description,
		Date:            date,
		Location:        req.Location,
		Category:        domain.EventCategory(req.Category),
		Image:           req.Image,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Event created successfully", fiber.Map{"event": dto.NewEventResponse(event)})
}

// Update handles PUT /api/events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch := service.EventPatch{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Category:        enumPtr[domain.EventCategory](req.Category),
		Image:           req.Image,
		MaxParticipants: req.MaxParticipants,
		Status:          enumPtr[domain.EventStatus](req.Status),
	}
	if req.Date != nil && *req.Date != "" {
		date, ok := dto.ParseDate(*req.Date)
		if !ok {
			return invalidDate()
		}
		patch.Date = &date
	}
	event, err := h.events.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Event updated successfully", fiber.Map{"event": dto.NewEventResponse(event)})
}

// Delete handles DELETE /api/events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	if err := h.events.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Event deleted successfully", nil)
}

// Register handles POST /api/events/:id/register.
func (h *EventsHandler) Register(c *fiber.Ctx) error {
	me, err := mustActor(c)
	if err != nil {
		return err
	}
	event, err := h.events.Register(c.UserContext(), c.Params("id"), me)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Registered for event successfully", fiber.Map{"event": dto.NewEventResponse(event)})
}

// Unregister handles DELETE /api/events/:id/unregister.
func (h *EventsHandler) Unregister(c *fiber.Ctx) error {
	me, err := mustActor(c)
	if err != nil {
		return err
	}
	event, err := h.events.Unregister(c.UserContext(), c.Params("id"), me)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Unregistered from event successfully", fiber.Map{"event": dto.NewEventResponse(event)})
}
