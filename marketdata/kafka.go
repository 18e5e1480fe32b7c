package marketdata

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"bourse/domain/book"
)

// KafkaPublisher pushes every snapshot to a Kafka topic, keyed by
// instrument so one topic can carry several books with per-instrument
// ordering.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
		log: log,
	}
}

func (p *KafkaPublisher) Publish(md book.MarketData) {
	payload, err := EncodeSnapshot(md)
	if err != nil {
		p.log.Error("encode snapshot", zap.Error(err))
		return
	}
	err = p.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(md.Instrument),
		Value: payload,
	})
	if err != nil {
		p.log.Warn("kafka publish failed", zap.Error(err))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
