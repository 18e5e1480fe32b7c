// Package broadcaster periodically publishes the current depth
// snapshot to Kafka for consumers that want a steady cadence rather
// than the per-mutation feed.
package broadcaster

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"bourse/domain/book"
	"bourse/marketdata"
)

// Source is anything that can produce a current snapshot. The engine
// satisfies it.
type Source interface {
	Snapshot() book.MarketData
}

type Broadcaster struct {
	src      Source
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
	log      *zap.Logger
}

func New(src Source, brokers []string, topic string, interval time.Duration, log *zap.Logger) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Broadcaster{
		src:      src,
		producer: producer,
		topic:    topic,
		interval: interval,
		log:      log,
	}, nil
}

// Run blocks until ctx is cancelled, broadcasting one snapshot per
// tick. A failed send is logged and retried on the next tick; the
// snapshot source is never blocked by Kafka.
func (b *Broadcaster) Run(ctx context.Context) {
	b.log.Info("broadcaster started",
		zap.String("topic", b.topic),
		zap.Duration("interval", b.interval))

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.broadcastOnce()
		}
	}
}

func (b *Broadcaster) broadcastOnce() {
	md := b.src.Snapshot()
	payload, err := marketdata.EncodeSnapshot(md)
	if err != nil {
		b.log.Error("encode snapshot", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: b.topic,
		Key:   sarama.StringEncoder(md.Instrument),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := b.producer.SendMessage(msg); err != nil {
		b.log.Warn("broadcast failed", zap.Error(err))
	}
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
