package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lms/internal/config"
	"lms/internal/db"
	"lms/internal/model"
	"lms/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Lead{}, &model.Activity{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	leadRepo := repository.NewLeadRepository(gormDB)
	ctx := context.Background()

	admin, err := ensureUser(ctx, userRepo, getEnv("ADMIN_NAME", "Admin"), getEnv("ADMIN_EMAIL", "admin@lms.local"), getEnv("ADMIN_PASSWORD", "admin123"), model.RoleAdmin, nil)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	rep, err := ensureUser(ctx, userRepo, "Sample Rep", "rep@lms.local", "sales123", model.RoleSales, &admin.ID)
	if err != nil {
		log.Fatalf("Failed to seed sales rep: %v", err)
	}

	leads := []model.Lead{
		{Name: "Acme Corp", Email: "contact@acme.test", Phone: "+1-555-0101", LeadSource: "Website", Status: model.LeadStatusNew, AssignedTo: &rep.ID},
		{Name: "Globex", Email: "hello@globex.test", Phone: "+1-555-0102", LeadSource: "Referral", Status: model.LeadStatusContacted, AssignedTo: &rep.ID},
		{Name: "Initech", Email: "info@initech.test", Phone: "+1-555-0103", LeadSource: "Cold Call", Status: model.LeadStatusQualified, AssignedTo: nil},
	}

	seeded := 0
	for i := range leads {
		existing, err := leadRepo.List(ctx, repository.LeadFilter{Email: leads[i].Email, Limit: 1})
		if err != nil {
			log.Fatalf("Failed to check lead: %v", err)
		}
		if len(existing) > 0 {
			continue
		}
		if err := leadRepo.Create(ctx, &leads[i]); err != nil {
			log.Fatalf("Failed to seed lead: %v", err)
		}
		seeded++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Admin user: %s", admin.Email)
	log.Printf("  - Sales user: %s", rep.Email)
	log.Printf("  - New leads created: %d", seeded)
}

func ensureUser(ctx context.Context, repo repository.UserRepository, name, email, password string, role model.Role, createdBy *uuid.UUID) (*model.User, error) {
	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if createdBy != nil {
		id := *createdBy
		user.CreatedBy = &id
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
