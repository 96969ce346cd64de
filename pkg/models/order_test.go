package models

import (
	"testing"
)

func TestStatusTransitionTableExhaustive(t *testing.T) {
	allowed := map[OrderStatus]map[OrderStatus]bool{
		StatusPending:        {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:      {StatusPreparing: true, StatusCancelled: true},
		StatusPreparing:      {StatusOutForDelivery: true},
		StatusOutForDelivery: {StatusDelivered: true},
		StatusDelivered:      {},
		StatusCancelled:      {},
	}

	all := []OrderStatus{
		StatusPending, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatusesRejectEverything(t *testing.T) {
	all := []OrderStatus{
		StatusPending, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled,
	}
	for _, terminal := range []OrderStatus{StatusDelivered, StatusCancelled} {
		for _, to := range all {
			if terminal.CanTransitionTo(to) {
				t.Errorf("terminal status %s allows transition to %s", terminal, to)
			}
		}
	}
}

func TestSelfTransitionsRejected(t *testing.T) {
	for s := range map[OrderStatus]struct{}{
		StatusPending: {}, StatusConfirmed: {}, StatusPreparing: {},
		StatusOutForDelivery: {}, StatusDelivered: {}, StatusCancelled: {},
	} {
		if s.CanTransitionTo(s) {
			t.Errorf("self-transition allowed for %s", s)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	if !StatusPending.Valid() || !StatusOutForDelivery.Valid() {
		t.Error("known statuses reported invalid")
	}
	if OrderStatus("shipped").Valid() {
		t.Error("unknown status reported valid")
	}
}

func TestRecalculateTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 100},
			{ProductID: "p2", Quantity: 1, Price: 50},
		},
		DeliveryCharge: 60,
	}
	order.RecalculateTotals()

	if order.TotalAmount != 250 {
		t.Errorf("TotalAmount = %g, want 250", order.TotalAmount)
	}
	if order.PlatformFee != 6 {
		t.Errorf("PlatformFee = %g, want 6", order.PlatformFee)
	}
}

func TestRecalculateTotalsTracksDeliveryCharge(t *testing.T) {
	order := Order{DeliveryCharge: 100}
	order.RecalculateTotals()
	if order.PlatformFee != 10 {
		t.Errorf("PlatformFee = %g, want 10", order.PlatformFee)
	}

	order.DeliveryCharge = 40
	order.RecalculateTotals()
	if order.PlatformFee != 4 {
		t.Errorf("PlatformFee after charge change = %g, want 4", order.PlatformFee)
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentCash, PaymentCard, PaymentWallet} {
		if !m.Valid() {
			t.Errorf("%s reported invalid", m)
		}
	}
	if PaymentMethod("crypto").Valid() {
		t.Error("unknown payment method reported valid")
	}
}
