// Package config holds the engine configuration surface.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Config configures one engine instance. Zero values are filled with
// defaults by Validate.
type Config struct {
	// Instrument is the opaque identifier of the traded instrument.
	Instrument string

	// Workers bounds the submission worker pool.
	Workers int

	// EventBufferSize is the order-event ring capacity. Must be a
	// power of two.
	EventBufferSize int

	// SnapshotDepth is the number of levels per side in published
	// market data.
	SnapshotDepth int

	// KafkaBrokers/KafkaTopic enable the Kafka market-data publisher
	// and the periodic broadcaster when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	// BroadcastInterval is the cadence of the periodic depth
	// broadcast job.
	BroadcastInterval time.Duration

	// ArchiveDir enables the pebble snapshot archive when non-empty.
	ArchiveDir string
}

var ErrNoInstrument = errors.New("config: instrument is required")

// Validate fills defaults and rejects configurations the engine cannot
// run with.
func (c *Config) Validate() error {
	if c.Instrument == "" {
		return ErrNoInstrument
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers %d is negative", c.Workers)
	}
	if c.EventBufferSize == 0 {
		c.EventBufferSize = 8192
	}
	if c.EventBufferSize < 0 || c.EventBufferSize&(c.EventBufferSize-1) != 0 {
		return fmt.Errorf("config: event buffer size %d is not a power of two", c.EventBufferSize)
	}
	if c.SnapshotDepth == 0 {
		c.SnapshotDepth = 10
	}
	if c.SnapshotDepth < 0 {
		return fmt.Errorf("config: snapshot depth %d is negative", c.SnapshotDepth)
	}
	if c.BroadcastInterval == 0 {
		c.BroadcastInterval = 250 * time.Millisecond
	}
	return nil
}
