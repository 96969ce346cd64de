package models

import (
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// OrderFilter selects orders for listing. Zero-valued fields are ignored.
// EndDate is extended to the end of its day so a date-only filter captures
// the whole day.
type OrderFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
	UserID        string
	ShopID        string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int64
	Limit         int64
}

func (f *OrderFilter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
}

// Pagination describes one page of a listing alongside its totals.
type Pagination struct {
	Current      int64 `json:"current"`
	TotalPages   int64 `json:"total"`
	Count        int64 `json:"count"`
	TotalRecords int64 `json:"totalRecords"`
}

// SummaryFilter scopes ledger aggregates to a shop and/or date range.
type SummaryFilter struct {
	ShopID    string
	StartDate *time.Time
	EndDate   *time.Time
}

// OrderSummary is the read-only ledger aggregate consumed by dashboards.
type OrderSummary struct {
	TotalOrders          int64                   `json:"totalOrders"`
	TodayOrders          int64                   `json:"todayOrders"`
	ByStatus             map[OrderStatus]int64   `json:"byStatus"`
	ByPaymentStatus      map[PaymentStatus]int64 `json:"byPaymentStatus"`
	TotalRevenue         float64                 `json:"totalRevenue"`
	TotalDeliveryCharges float64                 `json:"totalDeliveryCharges"`
	TotalPlatformFees    float64                 `json:"totalPlatformFees"`
}

// EndOfDay pins t to 23:59:59.999 of its day, matching the inclusive
// end-date filter semantics.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
