package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/localmart/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BandRepo persists delivery charge bands. Deactivated bands are kept for
// audit and excluded from lookup and overlap probes by the isActive filter.
type BandRepo struct {
	collection *mongo.Collection
}

func NewBandRepo(m *MongoRepository) *BandRepo {
	return &BandRepo{collection: m.database.Collection(bandsCollection)}
}

func (r *BandRepo) Insert(ctx context.Context, band *models.DeliveryCharge) error {
	now := time.Now()
	band.CreatedAt = now
	band.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, band)
	return err
}

func (r *BandRepo) Update(ctx context.Context, band *models.DeliveryCharge) error {
	band.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": band.ID}, band)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *BandRepo) FindByID(ctx context.Context, id string) (*models.DeliveryCharge, error) {
	var band models.DeliveryCharge
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&band)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &band, nil
}

// List returns bands ascending by minDistance, active only unless
// includeInactive is set (audit listing).
func (r *BandRepo) List(ctx context.Context, includeInactive bool) ([]models.DeliveryCharge, error) {
	filter := bson.M{}
	if !includeInactive {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "minDistance", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bands []models.DeliveryCharge
	if err := cursor.All(ctx, &bands); err != nil {
		return nil, err
	}
	return bands, nil
}

// FindOverlapping probes the store for an active band whose range intersects
// [minDistance, maxDistance), excluding excludeID when updating a band in
// place. The probe runs against persisted state at write time; two inserts
// validating concurrently can still interleave (no storage-layer constraint
// backs this check).
func (r *BandRepo) FindOverlapping(ctx context.Context, minDistance, maxDistance float64, excludeID string) (*models.DeliveryCharge, error) {
	filter := bson.M{
		"isActive": true,
		"$or": bson.A{
			bson.M{"minDistance": bson.M{"$lte": minDistance}, "maxDistance": bson.M{"$gt": minDistance}},
			bson.M{"minDistance": bson.M{"$lt": maxDistance}, "maxDistance": bson.M{"$gte": maxDistance}},
			bson.M{"minDistance": bson.M{"$gte": minDistance}, "maxDistance": bson.M{"$lte": maxDistance}},
		},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	var band models.DeliveryCharge
	err := r.collection.FindOne(ctx, filter).Decode(&band)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &band, nil
}

// Deactivate soft-deletes a band; remaining bands are left untouched.
func (r *BandRepo) Deactivate(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
