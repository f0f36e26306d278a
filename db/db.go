package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("not found")

// Client wraps the MongoDB connection and the collections the service uses.
type Client struct {
	mongo               *mongo.Client
	ItineraryCollection *mongo.Collection
}

// Connect opens a MongoDB connection and checks it with a ping.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Client{
		mongo:               c,
		ItineraryCollection: c.Database(database).Collection("itinerary"),
	}, nil
}

// EnsureIndexes creates the lookup indexes used by the itinerary store.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.ItineraryCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "itineraryid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_itineraryid"),
		},
		{
			Keys:    bson.D{{Key: "city", Value: 1}, {Key: "date_range.from", Value: 1}},
			Options: options.Index().SetName("city_start"),
		},
	})
	return err
}

func (c *Client) Close(ctx context.Context) error {
	return c.mongo.Disconnect(ctx)
}
