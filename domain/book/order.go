package book

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the side an order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

var (
	ErrInvalidPrice    = errors.New("order price must be positive")
	ErrInvalidQuantity = errors.New("order quantity must be positive")
	ErrEmptyOrderID    = errors.New("order id must not be empty")
	ErrOrderNotFound   = errors.New("order not found")
)

// Order is a plain limit order. Price, Quantity and Timestamp are fixed
// at construction; only the remaining quantity mutates, monotonically
// downward, via CAS so that concurrent matching paths never lose an
// update.
//
// An order is owned by at most one price level at a time; next/prev are
// that level's FIFO links and are guarded by the level's mutex.
type Order struct {
	ID        string
	Side      Side
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	Timestamp time.Time

	remaining atomic.Pointer[decimal.Decimal]

	next *Order
	prev *Order
}

// NewOrder validates the precondition that price and quantity are
// strictly positive. A violation is fatal for the submission: the order
// never enters the system.
func NewOrder(id string, side Side, price, quantity decimal.Decimal) (*Order, error) {
	if id == "" {
		return nil, ErrEmptyOrderID
	}
	if price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if quantity.Sign() <= 0 {
		return nil, ErrInvalidQuantity
	}
	o := &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Timestamp: time.Now(),
	}
	o.remaining.Store(&quantity)
	return o, nil
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() decimal.Decimal {
	return *o.remaining.Load()
}

// Filled reports whether the order has no quantity left.
func (o *Order) Filled() bool {
	return o.remaining.Load().Sign() == 0
}

// reduce shrinks the remaining quantity by amount. Retry-until-success:
// matching and cancellation may race on the same order.
func (o *Order) reduce(amount decimal.Decimal) {
	for {
		cur := o.remaining.Load()
		next := cur.Sub(amount)
		if o.remaining.CompareAndSwap(cur, &next) {
			return
		}
	}
}
