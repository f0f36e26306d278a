package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wayfarer/models"
	"wayfarer/utils"
)

// MongoStore keeps itineraries in the itinerary collection. Deletes are soft.
type MongoStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoStore(c *Client) *MongoStore {
	return &MongoStore{coll: c.ItineraryCollection, timeout: 5 * time.Second}
}

func (s *MongoStore) Insert(ctx context.Context, it models.Itinerary) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, it)
	return err
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Itinerary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{"itineraryid": id, "deleted": bson.M{"$ne": true}}
	var it models.Itinerary
	err := s.coll.FindOne(ctx, filter).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Itinerary{}, fmt.Errorf("itinerary %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Itinerary{}, err
	}
	return it, nil
}

func (s *MongoStore) List(ctx context.Context, f models.ItineraryFilter) ([]models.Itinerary, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	return utils.FindAndDecode[models.Itinerary](ctx, s.coll, listFilter(f), opts)
}

func listFilter(f models.ItineraryFilter) bson.M {
	filter := bson.M{"deleted": bson.M{"$ne": true}}
	if f.StartDate != "" {
		filter["date_range.from"] = f.StartDate
	}
	if f.City != "" {
		filter["city"] = f.City
	}
	if f.Location != "" {
		filter["days.items.location"] = bson.M{"$in": []string{f.Location}}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

func (s *MongoStore) Replace(ctx context.Context, it models.Itinerary) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"itineraryid": it.ItineraryID}, it)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("itinerary %s: %w", it.ItineraryID, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now().UTC()}}
	res, err := s.coll.UpdateOne(ctx, bson.M{"itineraryid": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("itinerary %s: %w", id, ErrNotFound)
	}
	return nil
}
