package main

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bourse/config"
	"bourse/domain/book"
	"bourse/engine"
	"bourse/internal/logging"
	"bourse/jobs/broadcaster"
	"bourse/marketdata"
)

func main() {
	log, err := logging.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Config{
		Instrument:      "BTC/USD",
		EventBufferSize: 8192,
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
		cfg.KafkaTopic = "bourse.marketdata"
	}
	if v := os.Getenv("ARCHIVE_DIR"); v != "" {
		cfg.ArchiveDir = v
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	pubs := []marketdata.Publisher{marketdata.NewLogPublisher(log)}
	if len(cfg.KafkaBrokers) > 0 {
		kp := marketdata.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer kp.Close()
		pubs = append(pubs, kp)
	}
	if cfg.ArchiveDir != "" {
		ar, err := marketdata.OpenArchive(cfg.ArchiveDir, log)
		if err != nil {
			log.Fatal("open archive", zap.Error(err))
		}
		defer ar.Close()
		pubs = append(pubs, ar)
	}

	eng, err := engine.New(cfg, marketdata.Tee(pubs...), log)
	if err != nil {
		log.Fatal("engine init", zap.Error(err))
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.KafkaBrokers) > 0 {
		bc, err := broadcaster.New(eng, cfg.KafkaBrokers, cfg.KafkaTopic+".depth", cfg.BroadcastInterval, log)
		if err != nil {
			log.Fatal("broadcaster init", zap.Error(err))
		}
		defer bc.Close()
		go bc.Run(ctx)
	}

	log.Info("engine running", zap.String("instrument", cfg.Instrument))
	runDemoFlow(eng, log)

	final := eng.Snapshot()
	log.Info("final book state",
		zap.Int("bid_levels", len(final.Bids)),
		zap.Int("ask_levels", len(final.Asks)),
		zap.Uint64("last_seq", eng.Sequence()))
}

// runDemoFlow submits a small burst of traffic: two resting orders, a
// crossing sell that trades, and an order that gets cancelled.
func runDemoFlow(eng *engine.Engine, log *zap.Logger) {
	submit := func(side book.Side, price, qty string) <-chan book.OrderResult {
		o, err := book.NewOrder(uuid.NewString(), side, dec(price), dec(qty))
		if err != nil {
			log.Fatal("bad demo order", zap.Error(err))
		}
		return eng.SubmitAdd(o)
	}

	buy1 := submit(book.Buy, "50000", "1.0")
	sell1 := submit(book.Sell, "50002", "0.5")

	cancelID := uuid.NewString()
	toCancel, err := book.NewOrder(cancelID, book.Buy, dec("49000"), dec("10.0"))
	if err != nil {
		log.Fatal("bad demo order", zap.Error(err))
	}
	cancelHandle := eng.SubmitAdd(toCancel)

	matching := submit(book.Sell, "50000", "0.75")

	for _, h := range []<-chan book.OrderResult{buy1, sell1, cancelHandle} {
		<-h
	}
	matched := <-matching
	log.Info("matching sell result",
		zap.Bool("success", matched.Success),
		zap.Int("trades", len(matched.Trades)))

	cancelled := <-eng.SubmitCancel(cancelID)
	log.Info("cancel result",
		zap.Bool("success", cancelled.Success),
		zap.String("message", cancelled.Message))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
