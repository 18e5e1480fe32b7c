package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuantity is one depth entry: a price and the aggregate resting
// quantity at it.
type PriceQuantity struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// MarketData is a point-in-time view of the top levels of both sides.
// It holds no references into the book; later mutation never alters a
// snapshot already issued.
type MarketData struct {
	Instrument string
	Bids       []PriceQuantity
	Asks       []PriceQuantity
	Timestamp  time.Time
}

// BestBid returns the highest resting bid price, or false on an empty
// side.
func (m MarketData) BestBid() (decimal.Decimal, bool) {
	if len(m.Bids) == 0 {
		return decimal.Zero, false
	}
	return m.Bids[0].Price, true
}

// BestAsk returns the lowest resting ask price, or false on an empty
// side.
func (m MarketData) BestAsk() (decimal.Decimal, bool) {
	if len(m.Asks) == 0 {
		return decimal.Zero, false
	}
	return m.Asks[0].Price, true
}
