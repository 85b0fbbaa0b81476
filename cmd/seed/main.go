package main

import (
	"context"
	"os"
	"time"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/config"
	"github.com/carwash/carwash-backend/internal/database"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     models.Role
}

var seedUsers = []seedUser{
	{"Admin Carwash", "admin@carwash.com", "admin123", models.RoleAdmin},
	{"Test User", "user@test.com", "user123", models.RoleUser},
}

var seedServices = []models.Service{
	{Name: "Cuci Mobil Reguler", Description: "Cuci mobil standar dengan sabun dan air bersih", Price: 25000, Duration: 30},
	{Name: "Cuci Mobil Premium", Description: "Cuci mobil lengkap dengan wax dan vacuum interior", Price: 50000, Duration: 60},
	{Name: "Cuci Motor", Description: "Cuci motor dengan sabun khusus dan lap microfiber", Price: 15000, Duration: 20},
	{Name: "Detailing Mobil", Description: "Perawatan lengkap mobil termasuk poles dan coating", Price: 150000, Duration: 180},
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db.DB); err != nil {
		logger.Fatalf("Failed to apply schema: %v", err)
	}

	logger.Info("Starting seed...")

	users := database.NewUserRepository(db.DB)
	for _, u := range seedUsers {
		log := logger.WithField("email", u.email)

		_, err := users.GetUserByEmail(ctx, u.email)
		if err == nil {
			log.Info("User already exists")
			continue
		}
		if !apperror.IsKind(err, apperror.NotFound) {
			log.Fatalf("Failed to look up user: %v", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), cfg.Security.BcryptCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		if err := users.CreateUser(ctx, &models.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
		}); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		log.WithField("role", u.role).Info("User created")
	}

	catalog := database.NewServiceRepository(db.DB)
	existing, err := catalog.List(ctx, nil)
	if err != nil {
		logger.Fatalf("Failed to list services: %v", err)
	}
	names := make(map[string]bool, len(existing))
	for _, s := range existing {
		names[s.Name] = true
	}

	for _, s := range seedServices {
		if names[s.Name] {
			continue
		}
		service := s
		if err := catalog.Create(ctx, &service); err != nil {
			logger.Fatalf("Failed to create service %q: %v", s.Name, err)
		}
		logger.WithField("service", s.Name).Info("Service created")
	}

	logger.Info("Seed completed")
}
