package book

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustOrder(t *testing.T, id string, side Side, price, qty string) *Order {
	t.Helper()
	o, err := NewOrder(id, side, dec(price), dec(qty))
	if err != nil {
		t.Fatalf("NewOrder(%s): %v", id, err)
	}
	return o
}

// levelSum walks the FIFO and sums remaining quantities.
func levelSum(l *PriceLevel) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	sum := decimal.Zero
	for n := l.head; n != nil; n = n.next {
		sum = sum.Add(n.Remaining())
	}
	return sum
}

func TestOrderValidation(t *testing.T) {
	if _, err := NewOrder("", Buy, dec("1"), dec("1")); err != ErrEmptyOrderID {
		t.Errorf("empty id: got %v", err)
	}
	if _, err := NewOrder("a", Buy, dec("0"), dec("1")); err != ErrInvalidPrice {
		t.Errorf("zero price: got %v", err)
	}
	if _, err := NewOrder("a", Buy, dec("-5"), dec("1")); err != ErrInvalidPrice {
		t.Errorf("negative price: got %v", err)
	}
	if _, err := NewOrder("a", Buy, dec("1"), dec("0")); err != ErrInvalidQuantity {
		t.Errorf("zero quantity: got %v", err)
	}
}

func TestAddOrderAggregates(t *testing.T) {
	l := newPriceLevel(dec("100"), Buy)
	l.AddOrder(mustOrder(t, "a", Buy, "100", "1.5"), nil)
	l.AddOrder(mustOrder(t, "b", Buy, "100", "0.5"), nil)

	if !l.TotalQuantity().Equal(dec("2")) {
		t.Errorf("total = %s, want 2", l.TotalQuantity())
	}
	if !l.TotalQuantity().Equal(levelSum(l)) {
		t.Error("aggregate does not equal sum of remaining quantities")
	}
	if l.OrderCount() != 2 {
		t.Errorf("count = %d, want 2", l.OrderCount())
	}
}

func TestRemoveOrder(t *testing.T) {
	l := newPriceLevel(dec("100"), Buy)
	a := mustOrder(t, "a", Buy, "100", "1")
	b := mustOrder(t, "b", Buy, "100", "2")
	l.AddOrder(a, nil)
	l.AddOrder(b, nil)

	if !l.RemoveOrder(a, nil) {
		t.Fatal("RemoveOrder(a) = false, want true")
	}
	if !l.TotalQuantity().Equal(dec("2")) {
		t.Errorf("total after remove = %s, want 2", l.TotalQuantity())
	}

	// Removing by identity a second time is a no-op.
	if l.RemoveOrder(a, nil) {
		t.Error("second RemoveOrder(a) = true, want false")
	}
	if !l.TotalQuantity().Equal(dec("2")) {
		t.Errorf("total after no-op remove = %s, want 2", l.TotalQuantity())
	}
}

func TestExecuteAgainstPartialFill(t *testing.T) {
	l := newPriceLevel(dec("50000"), Buy)
	maker := mustOrder(t, "maker", Buy, "50000", "1.0")
	l.AddOrder(maker, nil)

	taker := mustOrder(t, "taker", Sell, "50000", "0.75")
	trade := l.ExecuteAgainst(taker, nil)
	if trade == nil {
		t.Fatal("trade = nil")
	}
	if !trade.Quantity.Equal(dec("0.75")) {
		t.Errorf("trade qty = %s, want 0.75", trade.Quantity)
	}
	if !trade.Price.Equal(dec("50000")) {
		t.Errorf("trade price = %s, want resting price 50000", trade.Price)
	}
	if !maker.Remaining().Equal(dec("0.25")) {
		t.Errorf("maker remaining = %s, want 0.25", maker.Remaining())
	}
	if !taker.Remaining().Equal(dec("0")) {
		t.Errorf("taker remaining = %s, want 0", taker.Remaining())
	}
	if l.IsEmpty() {
		t.Error("partially filled maker should stay queued")
	}
	if !l.TotalQuantity().Equal(levelSum(l)) {
		t.Error("aggregate does not equal sum of remaining quantities")
	}
}

func TestExecuteAgainstFullFillDequeues(t *testing.T) {
	l := newPriceLevel(dec("50000"), Buy)
	maker := mustOrder(t, "maker", Buy, "50000", "0.5")
	l.AddOrder(maker, nil)

	var unregistered *Order
	taker := mustOrder(t, "taker", Sell, "50000", "0.5")
	trade := l.ExecuteAgainst(taker, func(o *Order) { unregistered = o })
	if trade == nil {
		t.Fatal("trade = nil")
	}
	if unregistered != maker {
		t.Error("fully filled maker was not unregistered")
	}
	if !l.IsEmpty() {
		t.Error("level should be empty after full fill")
	}
	if l.TotalQuantity().Sign() != 0 {
		t.Errorf("total = %s, want 0", l.TotalQuantity())
	}
}

func TestExecuteAgainstEmptyLevel(t *testing.T) {
	l := newPriceLevel(dec("50000"), Buy)
	taker := mustOrder(t, "taker", Sell, "50000", "1")
	if trade := l.ExecuteAgainst(taker, nil); trade != nil {
		t.Errorf("trade on empty level = %+v, want nil", trade)
	}
}

func TestFIFOWithinLevel(t *testing.T) {
	l := newPriceLevel(dec("100"), Sell)
	first := mustOrder(t, "first", Sell, "100", "1")
	second := mustOrder(t, "second", Sell, "100", "1")
	l.AddOrder(first, nil)
	l.AddOrder(second, nil)

	taker := mustOrder(t, "taker", Buy, "100", "1.5")

	trade := l.ExecuteAgainst(taker, nil)
	if trade.SellOrderID != "first" {
		t.Errorf("first trade maker = %s, want first", trade.SellOrderID)
	}
	trade = l.ExecuteAgainst(taker, nil)
	if trade.SellOrderID != "second" {
		t.Errorf("second trade maker = %s, want second", trade.SellOrderID)
	}
	if !second.Remaining().Equal(dec("0.5")) {
		t.Errorf("second remaining = %s, want 0.5", second.Remaining())
	}
}

func TestClosedLevelRejectsAdd(t *testing.T) {
	l := newPriceLevel(dec("100"), Buy)
	if !l.closeIfEmpty(nil) {
		t.Fatal("closeIfEmpty on empty level = false")
	}
	if l.AddOrder(mustOrder(t, "late", Buy, "100", "1"), nil) {
		t.Error("closed level accepted an order")
	}
}

func TestCloseIfEmptyRefusesNonEmpty(t *testing.T) {
	l := newPriceLevel(dec("100"), Buy)
	l.AddOrder(mustOrder(t, "a", Buy, "100", "1"), nil)
	if l.closeIfEmpty(nil) {
		t.Error("closeIfEmpty closed a level that still has orders")
	}
}
