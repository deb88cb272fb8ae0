package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

type NewMongoClientParams struct {
	URI            string
	ConnectTimeout time.Duration
	TracingEnabled bool
}

// NewMongoClient connects and pings the primary, so an unreachable server fails startup.
func NewMongoClient(ctx context.Context, params NewMongoClientParams) (*mongo.Client, error) {
	if params.URI == "" {
		return nil, fmt.Errorf("empty mongo connection string")
	}

	timeout := params.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(params.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if params.TracingEnabled {
		clientOpts.SetMonitor(otelmongo.NewMonitor())
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}
