// Package mongo implements the record store on MongoDB. Ids are int64 values
// handed out by the counters collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Collection names.
const (
	collectionUsers      = "users"
	collectionReviews    = "performance_reviews"
	collectionFeedback   = "feedback"
	collectionKPIs       = "kpis"
	collectionKPIResults = "kpi_results"
	collectionCounters   = "counters"
	collectionAudit      = "auth_audit"
)

type Config struct {
	URI      string
	Database string
	AppName  string
	Timeout  time.Duration
}

// Connect opens a client, pings the primary and selects cfg.Database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	appName := cfg.AppName
	if appName == "" {
		appName = "performance-api"
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique email
// index is what turns a concurrent duplicate registration into ErrUserExists.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "manager_id", Value: 1}}},
		},
		collectionReviews: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		collectionFeedback: {
			{Keys: bson.D{{Key: "to_user_id", Value: 1}}},
		},
		collectionKPIResults: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		collectionAudit: {
			{Keys: bson.D{{Key: "at", Value: -1}}},
			{Keys: bson.D{{Key: "subject_id", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
