package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"campmedix-api-server/config"
	"campmedix-api-server/internal/auth"
	"campmedix-api-server/internal/models"
)

// SeedAdminOrganizer creates the initial organizer account when it does not
// exist yet. All other users are created through the sign-in upsert and have
// no password.
func SeedAdminOrganizer(ctx context.Context, db *mongo.Database, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		logrus.Info("admin credentials not configured, seeding skipped")
		return nil
	}

	userCollection := db.Collection(UsersCollection)

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": cfg.Email})
	if err != nil {
		return err
	}
	if count > 0 {
		logrus.Info("admin organizer already exists, seeding skipped")
		return nil
	}

	logrus.WithField("email", cfg.Email).Info("admin organizer not found, seeding")
	hashedPassword, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:     cfg.Email,
		Name:      "CampMedix Admin",
		Role:      models.RoleOrganizer,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := userCollection.InsertOne(ctx, admin); err != nil {
		return err
	}

	logrus.Info("admin organizer seeded")
	return nil
}
