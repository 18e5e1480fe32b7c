package book

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade records one execution. Price is always the resting order's
// price. Immutable once created.
type Trade struct {
	ID          string
	BuyOrderID  string
	SellOrderID string
	Price       decimal.Decimal
	Quantity    decimal.Decimal
	Timestamp   time.Time
}

func newTrade(maker, taker *Order, price, quantity decimal.Decimal) Trade {
	t := Trade{
		ID:        uuid.NewString(),
		Price:     price,
		Quantity:  quantity,
		Timestamp: time.Now(),
	}
	if taker.Side == Buy {
		t.BuyOrderID, t.SellOrderID = taker.ID, maker.ID
	} else {
		t.BuyOrderID, t.SellOrderID = maker.ID, taker.ID
	}
	return t
}

// OrderResult is the single outcome delivered per submission.
type OrderResult struct {
	OrderID string
	Success bool
	Message string
	Trades  []Trade
}

func SuccessResult(orderID, message string, trades ...Trade) OrderResult {
	return OrderResult{OrderID: orderID, Success: true, Message: message, Trades: trades}
}

func ErrorResult(orderID, message string) OrderResult {
	return OrderResult{OrderID: orderID, Success: false, Message: message}
}
