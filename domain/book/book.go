package book

import (
	"errors"
	"sync"
	"time"
)

var ErrDuplicateOrder = errors.New("order id already active")

// Book is the live order book for one instrument. It owns the two side
// indexes and the active-order index; the two are kept mutually
// consistent under the per-level locks.
type Book struct {
	instrument string
	bids       *sideIndex
	asks       *sideIndex

	// order id -> *Order, for O(1) cancellation lookup. The index
	// references orders, it never owns them.
	active sync.Map
}

func New(instrument string) *Book {
	return &Book{
		instrument: instrument,
		bids:       newSideIndex(Buy),
		asks:       newSideIndex(Sell),
	}
}

func (b *Book) Instrument() string { return b.instrument }

// Add matches the incoming order against the opposite side and rests
// any unfilled remainder. All rejections happen before the first book
// mutation, so a failed add leaves the book untouched.
func (b *Book) Add(o *Order) ([]Trade, error) {
	if _, ok := b.active.Load(o.ID); ok {
		return nil, ErrDuplicateOrder
	}
	trades := b.match(o)
	if !o.Filled() {
		b.rest(o)
	}
	return trades, nil
}

// match runs the price-time-priority loop: best opposite level first,
// FIFO within a level, trades at the resting price.
func (b *Book) match(taker *Order) []Trade {
	opposite := b.sideOf(taker.Side.Opposite())

	var trades []Trade
	for taker.Remaining().Sign() > 0 {
		lvl, ok := opposite.best()
		if !ok || !crosses(taker, lvl) {
			break
		}
		trade := lvl.ExecuteAgainst(taker, b.unregister)
		if trade == nil {
			// Level drained by a concurrent cancel; drop it and retry
			// against the next best.
			lvl.closeIfEmpty(func() { opposite.remove(lvl.Price) })
			continue
		}
		trades = append(trades, *trade)
		lvl.closeIfEmpty(func() { opposite.remove(lvl.Price) })
	}
	return trades
}

// rest inserts the remainder into the order's own side. The retry loop
// covers the window where a level is being closed while we hold it.
func (b *Book) rest(o *Order) {
	side := b.sideOf(o.Side)
	for {
		lvl := side.getOrCreate(o.Price)
		if lvl.AddOrder(o, b.register) {
			return
		}
	}
}

// Cancel removes the order from the active index and its level as one
// unit under the level lock. Unknown ids are reported without side
// effects.
func (b *Book) Cancel(orderID string) error {
	v, ok := b.active.Load(orderID)
	if !ok {
		return ErrOrderNotFound
	}
	o := v.(*Order)

	side := b.sideOf(o.Side)
	lvl, ok := side.get(o.Price)
	if !ok {
		// Level vanished between lookup and here: the order was
		// matched away or cancelled concurrently.
		return ErrOrderNotFound
	}
	if !lvl.RemoveOrder(o, b.unregister) {
		return ErrOrderNotFound
	}
	lvl.closeIfEmpty(func() { side.remove(o.Price) })
	return nil
}

// Snapshot builds the top-depth view per side at call time. The result
// is a deep, independent copy.
func (b *Book) Snapshot(depth int) MarketData {
	md := MarketData{
		Instrument: b.instrument,
		Bids:       collect(b.bids, depth),
		Asks:       collect(b.asks, depth),
		Timestamp:  time.Now(),
	}
	return md
}

// ActiveOrders reports the number of resting orders.
func (b *Book) ActiveOrders() int {
	n := 0
	b.active.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Depth reports the number of populated price levels on one side.
func (b *Book) Depth(side Side) int {
	return b.sideOf(side).depth()
}

func (b *Book) sideOf(side Side) *sideIndex {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) register(o *Order)   { b.active.Store(o.ID, o) }
func (b *Book) unregister(o *Order) { b.active.Delete(o.ID) }

// crosses reports whether the taker's limit reaches the level's price.
func crosses(taker *Order, lvl *PriceLevel) bool {
	if taker.Side == Buy {
		return lvl.Price.Cmp(taker.Price) <= 0
	}
	return lvl.Price.Cmp(taker.Price) >= 0
}

func collect(side *sideIndex, depth int) []PriceQuantity {
	out := make([]PriceQuantity, 0, depth)
	side.ascend(func(lvl *PriceLevel) bool {
		if lvl.IsEmpty() {
			// Closed-but-not-yet-removed levels carry no quantity.
			return true
		}
		out = append(out, lvl.Snapshot())
		return len(out) < depth
	})
	return out
}
