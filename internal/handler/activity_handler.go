package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lms/internal/model"
	"lms/internal/service"
)

// ActivityHandler handles lead activity endpoints.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ActivityRequest represents an activity create/update body.
type ActivityRequest struct {
	Type        string `json:"type" validate:"required,oneof=Call Email Meeting Note"`
	Description string `json:"description" validate:"required"`
}

// AddActivity godoc
// @Summary Add an activity/note to a lead
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body ActivityRequest true "Activity data"
// @Success 201 {object} model.Activity
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id}/activities [post]
func (h *ActivityHandler) AddActivity(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lead id")
	}

	var req ActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	activity, err := h.activityService.Add(c.Request().Context(), actor, leadID, model.ActivityType(req.Type), req.Description)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "activity added successfully",
		"activity": activity,
	})
}

// ListActivities godoc
// @Summary List activities for a lead
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {array} model.Activity
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id}/activities [get]
func (h *ActivityHandler) ListActivities(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lead id")
	}

	activities, err := h.activityService.List(c.Request().Context(), actor, leadID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"activities": activities})
}

// UpdateActivity godoc
// @Summary Update an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param activityId path string true "Activity ID"
// @Param request body ActivityRequest true "Activity data"
// @Success 200 {object} model.Activity
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id}/activities/{activityId} [put]
func (h *ActivityHandler) UpdateActivity(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lead id")
	}
	activityID, err := uuid.Parse(c.Param("activityId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity id")
	}

	var req ActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	activity, err := h.activityService.Update(c.Request().Context(), actor, leadID, activityID, model.ActivityType(req.Type), req.Description)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "activity updated successfully",
		"activity": activity,
	})
}

// DeleteActivity godoc
// @Summary Delete an activity
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param activityId path string true "Activity ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads/{id}/activities/{activityId} [delete]
func (h *ActivityHandler) DeleteActivity(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lead id")
	}
	activityID, err := uuid.Parse(c.Param("activityId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid activity id")
	}

	if err := h.activityService.Delete(c.Request().Context(), actor, leadID, activityID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "activity deleted successfully"})
}
