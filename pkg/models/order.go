package models

import (
	"time"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// statusTransitions is the fixed order lifecycle graph. Delivered and
// cancelled are terminal; self-transitions are not listed and therefore
// rejected.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentWallet:
		return true
	}
	return false
}

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// OrderItem is one line item. Price is the unit price snapshotted at order
// time; later catalog changes never touch it.
type OrderItem struct {
	ProductID string  `bson:"product" json:"product"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

type Order struct {
	ID               string        `bson:"_id" json:"id"`
	UserID           string        `bson:"user" json:"user"`
	ShopID           string        `bson:"shop" json:"shop"`
	Items            []OrderItem   `bson:"items" json:"items"`
	Distance         float64       `bson:"distance" json:"distance"`
	TotalAmount      float64       `bson:"totalAmount" json:"totalAmount"`
	DeliveryCharge   float64       `bson:"deliveryCharge" json:"deliveryCharge"`
	PlatformFee      float64       `bson:"platformFee" json:"platformFee"`
	DeliveryLocation GeoPoint      `bson:"deliveryLocation" json:"deliveryLocation"`
	DeliveryAddress  string        `bson:"deliveryAddress" json:"deliveryAddress"`
	Status           OrderStatus   `bson:"status" json:"status"`
	PaymentStatus    PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod    PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
	CreatedAt        time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// PlatformFeeRate is the revenue share taken from the delivery charge.
const PlatformFeeRate = 0.1

// RecalculateTotals derives TotalAmount and PlatformFee from the line items
// and the delivery charge. Called before every persistence of the order so
// the stored totals can never drift from the stored items.
func (o *Order) RecalculateTotals() {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	o.TotalAmount = total
	o.PlatformFee = o.DeliveryCharge * PlatformFeeRate
}
