package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c := Config{Instrument: "BTC/USD"}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Workers <= 0 {
		t.Errorf("Workers = %d, want > 0", c.Workers)
	}
	if c.EventBufferSize != 8192 {
		t.Errorf("EventBufferSize = %d, want 8192", c.EventBufferSize)
	}
	if c.SnapshotDepth != 10 {
		t.Errorf("SnapshotDepth = %d, want 10", c.SnapshotDepth)
	}
	if c.BroadcastInterval != 250*time.Millisecond {
		t.Errorf("BroadcastInterval = %s", c.BroadcastInterval)
	}
}

func TestInstrumentRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err != ErrNoInstrument {
		t.Errorf("Validate = %v, want ErrNoInstrument", err)
	}
}

func TestEventBufferPowerOfTwo(t *testing.T) {
	c := Config{Instrument: "X", EventBufferSize: 1000}
	if err := c.Validate(); err == nil {
		t.Error("non-power-of-two buffer size accepted")
	}
	c = Config{Instrument: "X", EventBufferSize: 1024}
	if err := c.Validate(); err != nil {
		t.Errorf("1024 rejected: %v", err)
	}
}

func TestNegativeValuesRejected(t *testing.T) {
	for _, c := range []Config{
		{Instrument: "X", Workers: -1},
		{Instrument: "X", EventBufferSize: -8},
		{Instrument: "X", SnapshotDepth: -1},
	} {
		if err := c.Validate(); err == nil {
			t.Errorf("config %+v accepted", c)
		}
	}
}
