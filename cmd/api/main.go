package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"campmedix-api-server/config"
	"campmedix-api-server/internal/api/routes"
	"campmedix-api-server/internal/auth"
	"campmedix-api-server/internal/database"
	"campmedix-api-server/internal/payment"
	"campmedix-api-server/internal/s3"
	"campmedix-api-server/internal/socket"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// 1. Load configuration (.env overrides are optional)
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found")
	}
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		logrus.Fatalf("Could not load config: %v", err)
	}

	// 2. Connect MongoDB; the client lifecycle is owned here and the database
	// handle is passed to components explicitly.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	logrus.Info("Connected to MongoDB")

	if err := database.EnsureIndexes(ctx, db); err != nil {
		logrus.Fatalf("Failed to ensure indexes: %v", err)
	}

	// 3. Seed the initial admin organizer
	if err := database.SeedAdminOrganizer(ctx, db, cfg.Admin); err != nil {
		logrus.Fatalf("Failed to seed admin organizer: %v", err)
	}

	// 4. Token manager, payment bridge, photo uploader, websocket hub
	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	bridge := payment.NewBridge(cfg.Stripe.SecretKey, cfg.Stripe.Currency)

	var uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			logrus.Fatalf("Failed to create S3 uploader: %v", err)
		}
	} else {
		logrus.Warn("S3 bucket not configured, photo uploads disabled")
	}

	hub := socket.NewHub()

	// 5. Wire everything into the router and start serving
	router := routes.SetupRouter(cfg, db, tokens, bridge, uploader, hub)

	logrus.Infof("CampMedix server is running on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logrus.Fatalf("Failed to run server: %v", err)
	}
}
