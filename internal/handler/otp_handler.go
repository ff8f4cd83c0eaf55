package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lms/internal/service"
)

// OTPHandler handles the OTP-gated email/password change endpoints.
type OTPHandler struct {
	changeService service.ProfileChangeService
}

// NewOTPHandler creates a new OTP handler.
func NewOTPHandler(changeService service.ProfileChangeService) *OTPHandler {
	return &OTPHandler{changeService: changeService}
}

// RequestEmailChangeRequest asks for an email change.
type RequestEmailChangeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestPasswordChangeRequest asks for a password change.
type RequestPasswordChangeRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ConfirmChangeRequest carries the code and the change token back.
type ConfirmChangeRequest struct {
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	OTPToken string `json:"otp_token" validate:"required"`
}

// ChangeTokenResponse is returned from the request step.
type ChangeTokenResponse struct {
	Message  string `json:"message"`
	OTPToken string `json:"otp_token"`
}

// RequestEmailChange godoc
// @Summary Request an email change (code sent to current address)
// @Tags otp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RequestEmailChangeRequest true "New email"
// @Success 200 {object} ChangeTokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /otp/request-email-change [post]
func (h *OTPHandler) RequestEmailChange(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req RequestEmailChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.changeService.RequestEmailChange(c.Request().Context(), actor.ID, req.Email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ChangeTokenResponse{
		Message:  "OTP sent to your current email",
		OTPToken: token,
	})
}

// ConfirmEmailChange godoc
// @Summary Confirm an email change with the delivered code
// @Tags otp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConfirmChangeRequest true "Code and change token"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /otp/confirm-email-change [post]
func (h *OTPHandler) ConfirmEmailChange(c echo.Context) error {
	var req ConfirmChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.changeService.ConfirmEmailChange(c.Request().Context(), req.OTP, req.OTPToken)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "email updated successfully",
		"user":    profile,
	})
}

// RequestPasswordChange godoc
// @Summary Request a password change (code sent to account email)
// @Tags otp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RequestPasswordChangeRequest true "New password"
// @Success 200 {object} ChangeTokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /otp/request-password-change [post]
func (h *OTPHandler) RequestPasswordChange(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req RequestPasswordChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.changeService.RequestPasswordChange(c.Request().Context(), actor.ID, req.NewPassword)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ChangeTokenResponse{
		Message:  "OTP sent to your email",
		OTPToken: token,
	})
}

// ConfirmPasswordChange godoc
// @Summary Confirm a password change with the delivered code
// @Tags otp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConfirmChangeRequest true "Code and change token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /otp/confirm-password-change [post]
func (h *OTPHandler) ConfirmPasswordChange(c echo.Context) error {
	var req ConfirmChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.changeService.ConfirmPasswordChange(c.Request().Context(), req.OTP, req.OTPToken); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "password updated successfully"})
}
