package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"lms/internal/config"
	"lms/internal/handler"
	"lms/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	leadHandler *handler.LeadHandler,
	activityHandler *handler.ActivityHandler,
	otpHandler *handler.OTPHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}), identity())

	// Profile (both roles)
	secured.GET("/users/me", userHandler.Me)
	secured.PUT("/users/me", userHandler.UpdateMe)

	// User management (admin only)
	secured.GET("/users", userHandler.ListUsers, requireRoles(model.RoleAdmin))
	secured.POST("/users", userHandler.CreateUser, requireRoles(model.RoleAdmin))
	secured.PUT("/users/:id", userHandler.UpdateUser, requireRoles(model.RoleAdmin))
	secured.DELETE("/users/:id", userHandler.DeleteUser, requireRoles(model.RoleAdmin))

	// Lead routes
	leads := secured.Group("/leads", requireRoles(model.RoleAdmin, model.RoleSales))
	leads.POST("", leadHandler.CreateLead)
	leads.GET("", leadHandler.ListLeads)
	leads.GET("/:id", leadHandler.GetLead)
	leads.PUT("/:id", leadHandler.UpdateLead)
	leads.DELETE("/:id", leadHandler.DeleteLead)
	leads.POST("/:id/assign", leadHandler.AssignLead, requireRoles(model.RoleAdmin))

	// Activity routes, nested under a lead
	leads.POST("/:id/activities", activityHandler.AddActivity)
	leads.GET("/:id/activities", activityHandler.ListActivities)
	leads.PUT("/:id/activities/:activityId", activityHandler.UpdateActivity)
	leads.DELETE("/:id/activities/:activityId", activityHandler.DeleteActivity)

	// OTP change-confirmation routes (any authenticated user, own profile)
	otpGroup := secured.Group("/otp")
	otpGroup.POST("/request-email-change", otpHandler.RequestEmailChange)
	otpGroup.POST("/confirm-email-change", otpHandler.ConfirmEmailChange)
	otpGroup.POST("/request-password-change", otpHandler.RequestPasswordChange)
	otpGroup.POST("/confirm-password-change", otpHandler.ConfirmPasswordChange)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
