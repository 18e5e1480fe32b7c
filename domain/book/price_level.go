package book

import (
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// PriceLevel is the FIFO queue of resting orders at one exact price on
// one side. Every mutation is a single atomic unit serialized by the
// level's own mutex; one level's mutation never blocks another level.
//
// Invariant: total always equals the sum of the remaining quantities of
// the queued orders.
type PriceLevel struct {
	Price decimal.Decimal
	Side  Side

	mu     sync.Mutex
	head   *Order
	tail   *Order
	count  int
	closed bool

	// Read lock-free by snapshots.
	total atomic.Pointer[decimal.Decimal]
}

func newPriceLevel(price decimal.Decimal, side Side) *PriceLevel {
	l := &PriceLevel{Price: price, Side: side}
	zero := decimal.Zero
	l.total.Store(&zero)
	return l
}

// AddOrder appends to the FIFO tail and registers the order while the
// level lock is held, so the order is never observable in the level but
// not the active index. Returns false if the level has already been
// removed from its side; the caller must fetch a fresh level and retry.
func (l *PriceLevel) AddOrder(o *Order, register func(*Order)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	if l.head == nil {
		l.head = o
		l.tail = o
	} else {
		l.tail.next = o
		o.prev = l.tail
		l.tail = o
	}
	l.count++
	l.addTotal(o.Remaining())
	if register != nil {
		register(o)
	}
	return true
}

// RemoveOrder unlinks the order by identity and unregisters it under
// the level lock. No-op (returns false) if the order is not queued
// here, e.g. it was concurrently filled away.
func (l *PriceLevel) RemoveOrder(o *Order, unregister func(*Order)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	found := false
	for n := l.head; n != nil; n = n.next {
		if n == o {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	l.unlink(o)
	l.addTotal(o.Remaining().Neg())
	if unregister != nil {
		unregister(o)
	}
	return true
}

// ExecuteAgainst matches the incoming taker against the FIFO head.
// Returns nil when the level is empty: the caller must stop matching
// this level, it was concurrently drained. This is the designed abort
// boundary for races between matching and cancellation.
//
// unregister runs under the level lock when the head fills completely.
func (l *PriceLevel) ExecuteAgainst(taker *Order, unregister func(*Order)) *Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	maker := l.head
	if maker == nil {
		return nil
	}

	quantity := decimal.Min(maker.Remaining(), taker.Remaining())
	maker.reduce(quantity)
	taker.reduce(quantity)
	l.addTotal(quantity.Neg())

	if maker.Filled() {
		l.unlink(maker)
		if unregister != nil {
			unregister(maker)
		}
	}

	trade := newTrade(maker, taker, l.Price, quantity)
	return &trade
}

// closeIfEmpty marks an empty level as closed and runs onClose (the
// side-index removal) under the lock, so no order can be appended to a
// level that is no longer reachable. Returns false if orders remain.
func (l *PriceLevel) closeIfEmpty(onClose func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.head != nil {
		return false
	}
	if !l.closed {
		l.closed = true
		if onClose != nil {
			onClose()
		}
	}
	return true
}

func (l *PriceLevel) IsEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head == nil
}

func (l *PriceLevel) OrderCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// TotalQuantity is a lock-free read of the aggregate resting quantity.
func (l *PriceLevel) TotalQuantity() decimal.Decimal {
	return *l.total.Load()
}

// Snapshot is the level's contribution to a market data snapshot.
func (l *PriceLevel) Snapshot() PriceQuantity {
	return PriceQuantity{Price: l.Price, Quantity: l.TotalQuantity()}
}

// unlink assumes the caller holds mu and that o is queued here.
func (l *PriceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	l.count--
}

// addTotal assumes the caller holds mu; the CAS keeps the write atomic
// with respect to the lock-free readers.
func (l *PriceLevel) addTotal(delta decimal.Decimal) {
	for {
		cur := l.total.Load()
		next := cur.Add(delta)
		if l.total.CompareAndSwap(cur, &next) {
			return
		}
	}
}
