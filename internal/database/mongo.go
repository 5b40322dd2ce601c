package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectMongo dials MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig, log *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info("mongo connection established", zap.String("database", cfg.Database))
	return client, client.Database(cfg.Database), nil
}

// EnsureMongoIndexes creates the unique and lookup indexes. It is idempotent
// and reports every failing collection at once.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	var problems []string

	_, err := db.Collection("projects").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetName("uniq_projects_title").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "members.user_id", Value: 1}},
			Options: options.Index().SetName("idx_projects_members_user"),
		},
	})
	if err != nil {
		problems = append(problems, "projects: "+err.Error())
	}

	_, err = db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_users_email").SetUnique(true),
	})
	if err != nil {
		problems = append(problems, "users: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
