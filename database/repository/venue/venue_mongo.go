package venueRepo

import (
	"context"
	"fmt"
	"time"

	"courtagent/database"
	"courtagent/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVenueRepo implements VenueRepository using MongoDB.
type MongoVenueRepo struct {
	coll *mongo.Collection
}

// NewMongoVenueRepo creates a new VenueRepository backed by MongoDB.
func NewMongoVenueRepo() VenueRepository {
	coll := database.MongoClient.Database("courtagent").Collection("venues")
	repo := &MongoVenueRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoVenueRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoVenueRepo) GetByID(ctx context.Context, id string) (*models.VenueConfig, error) {
	var venue models.VenueConfig
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&venue)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch venue %s: %w", id, err)
	}
	return &venue, nil
}

func (r *MongoVenueRepo) List(ctx context.Context) ([]models.VenueConfig, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer cursor.Close(ctx)

	var venues []models.VenueConfig
	if err := cursor.All(ctx, &venues); err != nil {
		return nil, fmt.Errorf("failed to decode venues: %w", err)
	}
	return venues, nil
}

func (r *MongoVenueRepo) Upsert(ctx context.Context, venue models.VenueConfig) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": venue.ID}, venue, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert venue %s: %w", venue.ID, err)
	}
	return nil
}
