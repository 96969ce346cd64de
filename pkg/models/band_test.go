package models

import (
	"testing"
)

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                   string
		minA, maxA, minB, maxB float64
		want                   bool
	}{
		{"identical", 0, 5, 0, 5, true},
		{"b contains a start", 2, 8, 0, 5, true},
		{"b contains a end", 0, 5, 3, 10, true},
		{"b inside a", 0, 10, 2, 5, true},
		{"a inside b", 2, 5, 0, 10, true},
		{"touching at boundary", 0, 5, 5, 10, false},
		{"touching reversed", 5, 10, 0, 5, false},
		{"disjoint", 0, 5, 7, 10, false},
		{"disjoint reversed", 7, 10, 0, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RangesOverlap(tt.minA, tt.maxA, tt.minB, tt.maxB); got != tt.want {
				t.Errorf("RangesOverlap(%g,%g,%g,%g) = %v, want %v",
					tt.minA, tt.maxA, tt.minB, tt.maxB, got, tt.want)
			}
		})
	}
}

func TestBandContains(t *testing.T) {
	band := DeliveryCharge{MinDistance: 2, MaxDistance: 5, Charge: 40}

	tests := []struct {
		distance float64
		want     bool
	}{
		{2, true},   // min inclusive
		{3.5, true},
		{5, false}, // max exclusive
		{1.9, false},
		{5.1, false},
	}
	for _, tt := range tests {
		if got := band.Contains(tt.distance); got != tt.want {
			t.Errorf("Contains(%g) = %v, want %v", tt.distance, got, tt.want)
		}
	}
}
