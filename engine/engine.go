// Package engine is the asynchronous submission façade over the order
// book: a bounded worker pool executes add/cancel requests, every
// submission gets a sequence number and a future-like result handle,
// and a market data snapshot is published after each completed
// mutation.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"bourse/config"
	"bourse/domain/book"
	"bourse/infra/ringbuf"
	"bourse/infra/sequence"
	"bourse/marketdata"
)

var ErrClosed = errors.New("engine closed")

// Engine is the public contract of the matching core. All coordination
// between the domain book, sequencing, the event log and publication
// happens here.
type Engine struct {
	cfg  config.Config
	log  *zap.Logger
	book *book.Book
	seq  *sequence.Sequencer
	pool *ants.Pool
	pub  marketdata.Publisher

	events *ringbuf.Ring[OrderEvent]

	// Guards against two in-flight adds reusing one order id before
	// either reaches the active index.
	inflight sync.Map

	closed atomic.Bool
}

// New validates cfg and wires a ready engine. pub may be nil when the
// environment has no market data consumer.
func New(cfg config.Config, pub marketdata.Publisher, log *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if pub == nil {
		pub = marketdata.Tee()
	}
	events, err := ringbuf.New[OrderEvent](cfg.EventBufferSize)
	if err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("engine: worker pool: %w", err)
	}
	return &Engine{
		cfg:    cfg,
		log:    log,
		book:   book.New(cfg.Instrument),
		seq:    sequence.New(0),
		pool:   pool,
		pub:    pub,
		events: events,
	}, nil
}

// SubmitAdd queues the order for matching and returns a handle that
// delivers exactly one result once matching, resting and publication
// have finished. The order must come from book.NewOrder, which already
// enforced the price/quantity preconditions.
func (e *Engine) SubmitAdd(o *book.Order) <-chan book.OrderResult {
	if o == nil {
		return done(book.ErrorResult("", "nil order"))
	}
	if e.closed.Load() {
		return done(book.ErrorResult(o.ID, ErrClosed.Error()))
	}
	if _, loaded := e.inflight.LoadOrStore(o.ID, struct{}{}); loaded {
		return done(book.ErrorResult(o.ID, "duplicate order id"))
	}
	seq := e.seq.Next()
	e.record(OrderEvent{Type: EventAdd, OrderID: o.ID, Order: o, Sequence: seq})

	return e.dispatch(o.ID, func() book.OrderResult {
		defer e.inflight.Delete(o.ID)
		return e.processAdd(o)
	})
}

// SubmitCancel queues removal of the order with the given id. Unknown
// ids complete with an error result and no side effects.
func (e *Engine) SubmitCancel(orderID string) <-chan book.OrderResult {
	seq := e.seq.Next()
	e.record(OrderEvent{Type: EventCancel, OrderID: orderID, Sequence: seq})

	return e.dispatch(orderID, func() book.OrderResult {
		if err := e.book.Cancel(orderID); err != nil {
			if errors.Is(err, book.ErrOrderNotFound) {
				return book.ErrorResult(orderID, "Order not found")
			}
			return book.ErrorResult(orderID, err.Error())
		}
		e.pub.Publish(e.Snapshot())
		return book.SuccessResult(orderID, "Order cancelled")
	})
}

// Snapshot builds the current top-of-book view synchronously. It does
// not wait for in-flight submissions.
func (e *Engine) Snapshot() book.MarketData {
	return e.book.Snapshot(e.cfg.SnapshotDepth)
}

// Events exposes the submission event log. The engine only produces
// into it; see the package documentation for the draining contract.
func (e *Engine) Events() *ringbuf.Ring[OrderEvent] {
	return e.events
}

// Sequence returns the last issued sequence number.
func (e *Engine) Sequence() uint64 {
	return e.seq.Current()
}

// Close stops accepting submissions and releases the worker pool.
// In-flight submissions still complete.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	e.pool.Release()
	return nil
}

func (e *Engine) processAdd(o *book.Order) book.OrderResult {
	trades, err := e.book.Add(o)
	if err != nil {
		// Rejected before any mutation; the book is untouched.
		return book.ErrorResult(o.ID, err.Error())
	}
	e.pub.Publish(e.Snapshot())
	return book.SuccessResult(o.ID, "Order processed", trades...)
}

// dispatch hands fn to the pool and wires its single result into the
// returned handle. A panic inside fn is converted into an error result;
// it never corrupts or blocks unrelated submissions.
func (e *Engine) dispatch(orderID string, fn func() book.OrderResult) <-chan book.OrderResult {
	res := make(chan book.OrderResult, 1)
	if e.closed.Load() {
		res <- book.ErrorResult(orderID, ErrClosed.Error())
		return res
	}
	err := e.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.Error("submission panicked",
					zap.String("order_id", orderID),
					zap.Any("panic", r))
				res <- book.ErrorResult(orderID, fmt.Sprintf("internal error: %v", r))
			}
		}()
		res <- fn()
	})
	if err != nil {
		res <- book.ErrorResult(orderID, fmt.Sprintf("submission rejected: %v", err))
	}
	return res
}

// record offers the event to the ring. On backpressure the producer
// policy here is drop-and-log; matching never blocks on the event log.
func (e *Engine) record(ev OrderEvent) {
	if !e.events.Offer(ev) {
		e.log.Warn("event buffer full, dropping event",
			zap.String("type", ev.Type.String()),
			zap.String("order_id", ev.OrderID),
			zap.Uint64("seq", ev.Sequence))
	}
}

func done(r book.OrderResult) <-chan book.OrderResult {
	ch := make(chan book.OrderResult, 1)
	ch <- r
	return ch
}
