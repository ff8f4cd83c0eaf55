package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/service"
)

// LeadHandler handles lead CRUD endpoints.
type LeadHandler struct {
	leadService service.LeadService
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(leadService service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// CreateLeadRequest represents a lead creation request.
type CreateLeadRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	LeadSource string `json:"lead_source" validate:"required"`
	Status     string `json:"status" validate:"omitempty,oneof=New Contacted Qualified Disqualified Converted"`
	AssignedTo string `json:"assigned_to" validate:"omitempty,uuid"`
}

// UpdateLeadRequest represents a partial lead update.
type UpdateLeadRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone"`
	LeadSource *string `json:"lead_source"`
	Status     *string `json:"status" validate:"omitempty,oneof=New Contacted Qualified Disqualified Converted"`
}

// AssignLeadRequest reassigns a lead. An empty assigned_to unassigns it.
type AssignLeadRequest struct {
	AssignedTo string `json:"assigned_to" validate:"omitempty,uuid"`
}

// CreateLead godoc
// @Summary Create a new lead
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLeadRequest true "Lead data"
// @Success 201 {object} model.Lead
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /leads [post]
func (h *LeadHandler) CreateLead(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := service.CreateLeadInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		LeadSource: req.LeadSource,
		Status:     model.LeadStatus(req.Status),
	}
	if req.AssignedTo != "" {
		assignee, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid assigned_to")
		}
		input.AssignedTo = &assignee
	}

	lead, err := h.leadService.Create(c.Request().Context(), actor, input)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "lead created successfully",
		"lead":    lead,
	})
}

// ListLeads godoc
// @Summary List leads (admin sees all, sales only assigned)
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param lead_source query string false "Filter by lead source"
// @Param assigned_to query string false "Filter by assignee"
// @Param name query string false "Search by name"
// @Param email query string false "Search by email"
// @Param page query int false "Page number"
// @Param limit query int false "Results per page"
// @Success 200 {array} model.Lead
// @Failure 401 {object} errors.ErrorResponse
// @Router /leads [get]
func (h *LeadHandler) ListLeads(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	filter := repository.LeadFilter{
		Status:     model.LeadStatus(c.QueryParam("status")),
		LeadSource: c.QueryParam("lead_source"),
		Name:       c.QueryParam("name"),
		Email:      c.QueryParam("email"),
	}
	if raw := c.QueryParam("assigned_to"); raw != "" {
		assignee, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid assigned_to")
		}
		filter.AssignedTo = &assignee
	}
	if raw := c.QueryParam("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filter.Page = page
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	leads, err := h.leadService.List(c.Request().Context(), actor, filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"leads": leads})
}

// GetLead godoc
// @Summary Get a single lead by ID
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} model.Lead
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id} [get]
func (h *LeadHandler) GetLead(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	lead, err := h.leadService.Get(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"lead": lead})
}

// UpdateLead godoc
// @Summary Update a lead
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body UpdateLeadRequest true "Lead data"
// @Success 200 {object} model.Lead
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id} [put]
func (h *LeadHandler) UpdateLead(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := service.UpdateLeadInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		LeadSource: req.LeadSource,
	}
	if req.Status != nil {
		status := model.LeadStatus(*req.Status)
		input.Status = &status
	}

	lead, err := h.leadService.Update(c.Request().Context(), actor, id, input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "lead updated successfully",
		"lead":    lead,
	})
}

// DeleteLead godoc
// @Summary Delete a lead
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id} [delete]
func (h *LeadHandler) DeleteLead(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.leadService.Delete(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "lead deleted successfully"})
}

// AssignLead godoc
// @Summary Assign or reassign a lead (admin only)
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body AssignLeadRequest true "Assignment data"
// @Success 200 {object} model.Lead
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id}/assign [post]
func (h *LeadHandler) AssignLead(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req AssignLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var assignee *uuid.UUID
	if req.AssignedTo != "" {
		parsed, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid assigned_to")
		}
		assignee = &parsed
	}

	lead, err := h.leadService.Assign(c.Request().Context(), actor, id, assignee)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "lead assigned successfully",
		"lead":    lead,
	})
}
