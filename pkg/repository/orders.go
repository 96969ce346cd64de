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

// OrderRepo persists orders in the orders collection. Orders are never
// physically deleted; cancellation is a status transition.
type OrderRepo struct {
	collection *mongo.Collection
}

func NewOrderRepo(m *MongoRepository) *OrderRepo {
	return &OrderRepo{collection: m.database.Collection(ordersCollection)}
}

func (r *OrderRepo) Insert(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.RecalculateTotals()
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Find returns one page of orders matching the filter, newest first, plus
// the total match count.
func (r *OrderRepo) Find(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	filter.Normalize()
	query := orderQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((filter.Page - 1) * filter.Limit).
		SetLimit(filter.Limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus moves an order from one status to another with a conditional
// write: the filter pins the current status, so a concurrent transition of
// the same order makes this miss and surface models.ErrConflict rather than
// overwrite.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish a missing order from a lost race.
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return nil, ferr
		}
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Summarize runs the ledger aggregates: totals, today's count, per-status
// and per-payment-status breakdowns, and revenue sums.
func (r *OrderRepo) Summarize(ctx context.Context, filter models.SummaryFilter) (*models.OrderSummary, error) {
	match := summaryQuery(filter)

	summary := &models.OrderSummary{
		ByStatus:        make(map[models.OrderStatus]int64),
		ByPaymentStatus: make(map[models.PaymentStatus]int64),
	}

	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, err
	}
	summary.TotalOrders = total

	startOfDay := time.Now().Truncate(24 * time.Hour)
	todayMatch := cloneQuery(match)
	todayMatch["createdAt"] = bson.M{"$gte": startOfDay}
	today, err := r.collection.CountDocuments(ctx, todayMatch)
	if err != nil {
		return nil, err
	}
	summary.TodayOrders = today

	if err := r.groupCounts(ctx, match, "$status", func(key string, count int64) {
		summary.ByStatus[models.OrderStatus(key)] = count
	}); err != nil {
		return nil, err
	}
	if err := r.groupCounts(ctx, match, "$paymentStatus", func(key string, count int64) {
		summary.ByPaymentStatus[models.PaymentStatus(key)] = count
	}); err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"revenue":         bson.M{"$sum": "$totalAmount"},
			"deliveryCharges": bson.M{"$sum": "$deliveryCharge"},
			"platformFees":    bson.M{"$sum": "$platformFee"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var totals []struct {
		Revenue         float64 `bson:"revenue"`
		DeliveryCharges float64 `bson:"deliveryCharges"`
		PlatformFees    float64 `bson:"platformFees"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	if len(totals) > 0 {
		summary.TotalRevenue = totals[0].Revenue
		summary.TotalDeliveryCharges = totals[0].DeliveryCharges
		summary.TotalPlatformFees = totals[0].PlatformFees
	}

	return summary, nil
}

func (r *OrderRepo) groupCounts(ctx context.Context, match bson.M, field string, collect func(key string, count int64)) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   field,
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return err
	}
	for _, row := range rows {
		collect(row.ID, row.Count)
	}
	return nil
}

func orderQuery(filter models.OrderFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		query["paymentStatus"] = filter.PaymentStatus
	}
	if filter.UserID != "" {
		query["user"] = filter.UserID
	}
	if filter.ShopID != "" {
		query["shop"] = filter.ShopID
	}
	if dateRange := dateRangeQuery(filter.StartDate, filter.EndDate); dateRange != nil {
		query["createdAt"] = dateRange
	}
	return query
}

func summaryQuery(filter models.SummaryFilter) bson.M {
	query := bson.M{}
	if filter.ShopID != "" {
		query["shop"] = filter.ShopID
	}
	if dateRange := dateRangeQuery(filter.StartDate, filter.EndDate); dateRange != nil {
		query["createdAt"] = dateRange
	}
	return query
}

func dateRangeQuery(start, end *time.Time) bson.M {
	if start == nil && end == nil {
		return nil
	}
	dateRange := bson.M{}
	if start != nil {
		dateRange["$gte"] = *start
	}
	if end != nil {
		dateRange["$lte"] = models.EndOfDay(*end)
	}
	return dateRange
}

func cloneQuery(query bson.M) bson.M {
	copied := make(bson.M, len(query)+1)
	for k, v := range query {
		copied[k] = v
	}
	return copied
}
