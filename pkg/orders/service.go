// Package orders implements the order core: creation with distance-based
// pricing and stock mutation, and the fixed status-transition lifecycle
// through to delivery or cancellation.
package orders

import (
	"context"

	"github.com/example/localmart/pkg/config"
	"github.com/example/localmart/pkg/events"
	"github.com/example/localmart/pkg/geo"
	"github.com/example/localmart/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Store interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Find(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error)
	Summarize(ctx context.Context, filter models.SummaryFilter) (*models.OrderSummary, error)
}

// ShopDirectory is the collaborator owning shop aggregates and their stock.
type ShopDirectory interface {
	FindShopByID(ctx context.Context, id string) (*models.Shop, error)
	DecrementStock(ctx context.Context, shopID, productID string, quantity int) error
}

// Charger resolves a delivery charge for a distance, fallback included.
type Charger interface {
	ChargeFor(ctx context.Context, distance float64) float64
}

// Publisher is the fire-and-forget event sink for the audit actor.
type Publisher interface {
	Publish(msg interface{})
}

type Service struct {
	store   Store
	shops   ShopDirectory
	pricing Charger
	events  Publisher
	config  *config.PricingConfig
	logger  *zap.Logger
}

func NewService(store Store, shops ShopDirectory, pricing Charger, events Publisher, cfg *config.PricingConfig, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		shops:   shops,
		pricing: pricing,
		events:  events,
		config:  cfg,
		logger:  logger,
	}
}

// CreateRequest carries the client's order input. Item prices are the
// client's claimed unit prices; whether they are trusted or re-read from the
// catalog is a config switch.
type CreateRequest struct {
	UserID           string
	ShopID           string
	Items            []models.OrderItem
	DeliveryLocation []float64 // [longitude, latitude]
	DeliveryAddress  string
	PaymentMethod    models.PaymentMethod
}

// Create validates the request against the shop's catalog, prices the
// delivery by distance, persists the order pending, and decrements shop
// stock per line item.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Order, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	shop, err := s.shops.FindShopByID(ctx, req.ShopID)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, len(req.Items))
	copy(items, req.Items)
	for i := range items {
		entry := shop.FindProduct(items[i].ProductID)
		if entry == nil {
			return nil, models.NewValidationError("product %s not found in shop", items[i].ProductID)
		}
		// Sufficient-stock checking is intentionally disabled; the decrement
		// below floors at zero instead of rejecting.
		if !s.config.TrustClientPrices {
			items[i].Price = entry.Price
		}
	}

	distance := geo.Distance(
		req.DeliveryLocation[1], req.DeliveryLocation[0],
		shop.Location.Coordinates[1], shop.Location.Coordinates[0],
	)
	deliveryCharge := s.pricing.ChargeFor(ctx, distance)

	order := &models.Order{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		ShopID:           req.ShopID,
		Items:            items,
		Distance:         distance,
		DeliveryCharge:   deliveryCharge,
		DeliveryLocation: models.NewGeoPoint(req.DeliveryLocation[0], req.DeliveryLocation[1]),
		DeliveryAddress:  req.DeliveryAddress,
		Status:           models.StatusPending,
		PaymentStatus:    models.PaymentPending,
		PaymentMethod:    req.PaymentMethod,
	}
	order.RecalculateTotals()

	if err := s.store.Insert(ctx, order); err != nil {
		return nil, err
	}

	// Stock mutation is a separate write from order persistence; there is no
	// transaction spanning both. A failure here leaves the order placed with
	// stock un-decremented, so it is logged with the order id as the
	// reconciliation hook.
	for _, item := range order.Items {
		if err := s.shops.DecrementStock(ctx, order.ShopID, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("failed to decrement stock for placed order",
				zap.String("order_id", order.ID),
				zap.String("shop_id", order.ShopID),
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}

	if s.events != nil {
		s.events.Publish(&events.OrderPlaced{
			OrderID:        order.ID,
			UserID:         order.UserID,
			ShopID:         order.ShopID,
			TotalAmount:    order.TotalAmount,
			DeliveryCharge: order.DeliveryCharge,
			PlatformFee:    order.PlatformFee,
		})
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("shop_id", order.ShopID),
		zap.Float64("distance_km", distance),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Float64("delivery_charge", deliveryCharge))
	return order, nil
}

// UpdateStatus moves the order to target if the transition table allows it.
// Nothing is mutated on rejection.
func (s *Service) UpdateStatus(ctx context.Context, id string, target models.OrderStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, models.NewValidationError("unknown status %q", string(target))
	}

	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, models.NewValidationError("Invalid status transition")
	}

	updated, err := s.store.UpdateStatus(ctx, id, order.Status, target)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(&events.OrderStatusChanged{OrderID: id, From: order.Status, To: target})
	}
	return updated, nil
}

// Cancel transitions a pending order to cancelled. Orders are never hard
// deleted; any other current status is rejected.
func (s *Service) Cancel(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPending {
		return nil, models.NewValidationError("can only cancel pending orders")
	}

	cancelled, err := s.store.UpdateStatus(ctx, id, models.StatusPending, models.StatusCancelled)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(&events.OrderStatusChanged{OrderID: id, From: models.StatusPending, To: models.StatusCancelled})
	}
	return cancelled, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.store.FindByID(ctx, id)
}

// List returns one page of orders newest-first with pagination totals.
func (s *Service) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, models.Pagination, error) {
	filter.Normalize()
	orders, total, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pages := total / filter.Limit
	if total%filter.Limit != 0 {
		pages++
	}
	return orders, models.Pagination{
		Current:      filter.Page,
		TotalPages:   pages,
		Count:        int64(len(orders)),
		TotalRecords: total,
	}, nil
}

// Summary exposes the read-only order ledger aggregates.
func (s *Service) Summary(ctx context.Context, filter models.SummaryFilter) (*models.OrderSummary, error) {
	return s.store.Summarize(ctx, filter)
}

func validateCreate(req CreateRequest) error {
	if req.UserID == "" {
		return models.NewValidationError("user id is required")
	}
	if req.ShopID == "" {
		return models.NewValidationError("shop id is required")
	}
	if len(req.Items) == 0 {
		return models.NewValidationError("at least one line item is required")
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return models.NewValidationError("line item product id is required")
		}
		if item.Quantity < 1 {
			return models.NewValidationError("line item quantity must be >= 1")
		}
	}
	if len(req.DeliveryLocation) != 2 {
		return models.NewValidationError("delivery location must be [longitude, latitude]")
	}
	if req.DeliveryAddress == "" {
		return models.NewValidationError("delivery address is required")
	}
	if !req.PaymentMethod.Valid() {
		return models.NewValidationError("payment method must be cash, card, or wallet")
	}
	return nil
}
