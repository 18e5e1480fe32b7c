// Package marketdata defines the publisher contract the engine pushes
// snapshots through, plus the concrete publishers the composition root
// can plug in: structured logging, Kafka fan-out, and a pebble archive.
package marketdata

import (
	"go.uber.org/zap"

	"bourse/domain/book"
)

// Publisher consumes immutable market data snapshots. The engine calls
// Publish synchronously after every completed mutation, before the
// mutation's result is delivered; slow publishers stretch submission
// latency, so implementations should stay cheap or hand off quickly.
type Publisher interface {
	Publish(book.MarketData)
}

// Tee fans one snapshot out to several publishers in order.
func Tee(pubs ...Publisher) Publisher {
	return tee(pubs)
}

type tee []Publisher

func (t tee) Publish(md book.MarketData) {
	for _, p := range t {
		p.Publish(md)
	}
}

// LogPublisher writes top-of-book updates to the structured log.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(md book.MarketData) {
	fields := []zap.Field{
		zap.String("instrument", md.Instrument),
		zap.Int("bid_levels", len(md.Bids)),
		zap.Int("ask_levels", len(md.Asks)),
		zap.Time("ts", md.Timestamp),
	}
	if bid, ok := md.BestBid(); ok {
		fields = append(fields, zap.String("best_bid", bid.String()))
	}
	if ask, ok := md.BestAsk(); ok {
		fields = append(fields, zap.String("best_ask", ask.String()))
	}
	p.log.Info("market data update", fields...)
}
