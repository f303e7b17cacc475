package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/incident-tracker/internal/api/dto"
	"github.com/opsdesk/incident-tracker/internal/auth"
	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/policy"
	"github.com/opsdesk/incident-tracker/internal/repository"
	"github.com/opsdesk/incident-tracker/internal/service"
	apperrors "github.com/opsdesk/incident-tracker/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create handles POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.Context(), caller, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// List handles GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}

	tickets, err := h.service.List(c.Context(), caller, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	ticket, err := h.service.Get(c.Context(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// UpdateStatus handles PUT /api/tickets/:id.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status is required", nil)
	}

	ticket, err := h.service.UpdateStatus(c.Context(), caller, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

func callerFromContext(c *fiber.Ctx) (policy.Caller, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return policy.Caller{}, apperrors.NewUnauthorized("authentication required")
	}
	return policy.Caller{ID: claims.UserID, Role: claims.Role}, nil
}

// parseTicketQuery builds the closed ticket filter from query params.
// Enum values are validated here so nothing unchecked reaches a query.
func parseTicketQuery(c *fiber.Ctx) (repository.TicketFilter, error) {
	filter := repository.TicketFilter{}

	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.TicketStatus(statusStr)
		if !domain.ValidStatus(status) {
			return filter, apperrors.NewValidationError("invalid status filter", map[string]any{"status": statusStr})
		}
		filter.Status = &status
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		priority := domain.TicketPriority(priorityStr)
		if !domain.ValidPriority(priority) {
			return filter, apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": priorityStr})
		}
		filter.Priority = &priority
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		filter.CreatedBy = &createdBy
	}
	return filter, nil
}
