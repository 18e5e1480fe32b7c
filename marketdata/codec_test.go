package marketdata

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bourse/domain/book"
)

func TestEncodeSnapshot(t *testing.T) {
	md := book.MarketData{
		Instrument: "BTC/USD",
		Bids: []book.PriceQuantity{
			{Price: decimal.RequireFromString("50000"), Quantity: decimal.RequireFromString("1.25")},
		},
		Asks: []book.PriceQuantity{
			{Price: decimal.RequireFromString("50002.5"), Quantity: decimal.RequireFromString("0.5")},
		},
		Timestamp: time.Unix(0, 1234567890),
	}

	payload, err := EncodeSnapshot(md)
	if err != nil {
		t.Fatal(err)
	}

	var got wire
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatal(err)
	}
	if got.Instrument != "BTC/USD" {
		t.Errorf("instrument = %q", got.Instrument)
	}
	if got.Timestamp != 1234567890 {
		t.Errorf("ts = %d", got.Timestamp)
	}
	if len(got.Bids) != 1 || got.Bids[0].Price != "50000" || got.Bids[0].Quantity != "1.25" {
		t.Errorf("bids = %+v", got.Bids)
	}
	// Decimal strings stay exact, no float formatting.
	if len(got.Asks) != 1 || got.Asks[0].Price != "50002.5" {
		t.Errorf("asks = %+v", got.Asks)
	}
}

func TestTeeFanout(t *testing.T) {
	var a, b int
	pa := publisherFunc(func(book.MarketData) { a++ })
	pb := publisherFunc(func(book.MarketData) { b++ })

	Tee(pa, pb).Publish(book.MarketData{})
	if a != 1 || b != 1 {
		t.Errorf("fanout counts = %d, %d; want 1, 1", a, b)
	}
}

type publisherFunc func(book.MarketData)

func (f publisherFunc) Publish(md book.MarketData) { f(md) }
