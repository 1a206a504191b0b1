package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campmedix-api-server/config"
	"campmedix-api-server/internal/models"
)

// Collection names in campsDB.
const (
	UsersCollection         = "users"
	CampsCollection         = "camps"
	RegistrationsCollection = "registrations"
	FeedbacksCollection     = "feedbacks"
	PaymentsCollection      = "payments"
)

// Connect opens the MongoDB client with Stable API v1 options and pings the
// deployment before handing the database handle to the caller. The caller
// owns the client lifecycle.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)
	opts := options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the indexes the handlers rely on. Safe to call on
// every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("users_email_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = db.Collection(CampsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "campName", Value: 1}},
			Options: options.Index().SetName("camps_name"),
		},
		{
			Keys:    bson.D{{Key: "participantCount", Value: -1}},
			Options: options.Index().SetName("camps_participant_count"),
		},
	})
	if err != nil {
		return fmt.Errorf("camps indexes: %w", err)
	}

	_, err = db.Collection(RegistrationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "participantEmail", Value: 1}},
			Options: options.Index().SetName("registrations_participant"),
		},
		{
			Keys:    bson.D{{Key: "organizerEmail", Value: 1}},
			Options: options.Index().SetName("registrations_organizer"),
		},
	})
	if err != nil {
		return fmt.Errorf("registrations indexes: %w", err)
	}

	_, err = db.Collection(PaymentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "registrationId", Value: 1}},
			Options: options.Index().SetName("payments_registration"),
		},
		{
			Keys:    bson.D{{Key: "participantEmail", Value: 1}},
			Options: options.Index().SetName("payments_participant"),
		},
	})
	if err != nil {
		return fmt.Errorf("payments indexes: %w", err)
	}

	return nil
}

// UserRoleResolver returns the single identity-resolution step used by the
// role guard: one lookup of the user's role by email per guarded request, so
// role changes take effect immediately.
func UserRoleResolver(db *mongo.Database) func(ctx context.Context, email string) (string, error) {
	return func(ctx context.Context, email string) (string, error) {
		var user models.User
		err := db.Collection(UsersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err != nil {
			return "", err
		}
		return user.Role, nil
	}
}
