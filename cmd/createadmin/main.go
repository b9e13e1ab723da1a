// Command createadmin creates the bootstrap superuser from the ADMIN_* settings.
// Running it again when the account exists is a no-op.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/user-management-service/configs"
	"github.com/avatarctic/user-management-service/internal/application/services"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/infrastructure/db"
	"github.com/avatarctic/user-management-service/internal/infrastructure/repositories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations:", err)
	}

	// Writes go straight to the database; a running server's cache expires on its own TTL.
	userService := services.NewUserService(
		repositories.NewUserRepository(database, logger),
		repositories.NewActivityRepository(database, logger),
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := userService.CreateSuperuser(ctx, &user.CreateUserRequest{
		Email:    cfg.Admin.Email,
		FullName: cfg.Admin.FullName,
		Password: cfg.Admin.Password,
	})
	switch {
	case errors.Is(err, user.ErrEmailAlreadyRegistered):
		logger.WithField("email", cfg.Admin.Email).Info("Admin user already exists")
	case err != nil:
		logger.WithError(err).Fatal("Failed to create admin user")
	default:
		logger.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email}).Info("Admin user created")
	}
}
