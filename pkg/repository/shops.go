package repository

import (
	"context"
	"errors"

	"github.com/example/localmart/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ShopRepo reads shop aggregates and mutates their embedded product stock.
type ShopRepo struct {
	collection *mongo.Collection
}

func NewShopRepo(m *MongoRepository) *ShopRepo {
	return &ShopRepo{collection: m.database.Collection(shopsCollection)}
}

func (r *ShopRepo) FindByID(ctx context.Context, id string) (*models.Shop, error) {
	var shop models.Shop
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&shop)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// DecrementStock subtracts quantity from one product's stock inside the shop
// document, floored at zero, and recomputes inStock from the new quantity.
// The whole mutation is a single aggregation-pipeline update, so concurrent
// orders against the same shop serialize on the document and never apply a
// stale read.
func (r *ShopRepo) DecrementStock(ctx context.Context, shopID, productID string, quantity int) error {
	filter := bson.M{"_id": shopID, "products.product": productID}

	newQuantity := bson.M{"$max": bson.A{
		0,
		bson.M{"$subtract": bson.A{"$$entry.quantity", quantity}},
	}}
	update := bson.A{
		bson.M{"$set": bson.M{
			"products": bson.M{"$map": bson.M{
				"input": "$products",
				"as":    "entry",
				"in": bson.M{"$cond": bson.A{
					bson.M{"$eq": bson.A{"$$entry.product", productID}},
					bson.M{"$mergeObjects": bson.A{
						"$$entry",
						bson.M{"$let": bson.M{
							"vars": bson.M{"q": newQuantity},
							"in": bson.M{
								"quantity": "$$q",
								"inStock":  bson.M{"$gt": bson.A{"$$q", 0}},
							},
						}},
					}},
					"$$entry",
				}},
			}},
		}},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
