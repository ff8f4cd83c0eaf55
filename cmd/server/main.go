package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lms/docs"
	"lms/internal/auth"
	"lms/internal/cache"
	"lms/internal/config"
	"lms/internal/db"
	"lms/internal/handler"
	"lms/internal/mail"
	"lms/internal/model"
	"lms/internal/otp"
	"lms/internal/repository"
	"lms/internal/router"
	"lms/internal/service"
)

// @title Lead Management API
// @version 1.0
// @description Lead management backend with role-based access control and OTP-confirmed profile changes.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Activity{},
			&model.Lead{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Lead{},
		&model.Activity{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	leadRepo := repository.NewLeadRepository(gormDB)
	activityRepo := repository.NewActivityRepository(gormDB)

	// Initialize auth and OTP components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	changeTokens := otp.NewTokenService(cfg.OTPJWTSecret)
	pendingStore := otp.NewRedisPendingStore(cacheClient)
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, cacheClient)
	leadService := service.NewLeadService(leadRepo)
	activityService := service.NewActivityService(activityRepo, leadRepo)
	changeService := service.NewProfileChangeService(userRepo, pendingStore, changeTokens, mailer, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	leadHandler := handler.NewLeadHandler(leadService)
	activityHandler := handler.NewActivityHandler(activityService)
	otpHandler := handler.NewOTPHandler(changeService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		leadHandler,
		activityHandler,
		otpHandler,
	)

	addr := ":" + cfg.ServerPort
	log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
