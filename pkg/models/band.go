package models

import (
	"time"
)

// DeliveryCharge is one distance band of the pricing table: a flat charge
// for distances in [MinDistance, MaxDistance), both kilometers. Deactivated
// bands stay stored for audit but are ignored by lookup and overlap checks.
type DeliveryCharge struct {
	ID          string    `bson:"_id" json:"id"`
	MinDistance float64   `bson:"minDistance" json:"minDistance"`
	MaxDistance float64   `bson:"maxDistance" json:"maxDistance"`
	Charge      float64   `bson:"charge" json:"charge"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Contains reports whether distance (km) falls inside the band's
// half-open range.
func (d *DeliveryCharge) Contains(distance float64) bool {
	return distance >= d.MinDistance && distance < d.MaxDistance
}

// RangesOverlap reports whether the half-open intervals [minA, maxA) and
// [minB, maxB) intersect: B contains A's start, B contains A's end, or B
// sits fully inside A.
func RangesOverlap(minA, maxA, minB, maxB float64) bool {
	if minB <= minA && maxB > minA {
		return true
	}
	if minB < maxA && maxB >= maxA {
		return true
	}
	return minB >= minA && maxB <= maxA
}
