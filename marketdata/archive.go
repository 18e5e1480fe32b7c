package marketdata

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"bourse/domain/book"
)

// Archive keeps every published snapshot in a pebble store, keyed by
// instrument and a local big-endian counter so iteration replays
// snapshots in publication order. Write-only from the engine's point
// of view: nothing here feeds state back into the book.
type Archive struct {
	db  *pebble.DB
	seq atomic.Uint64
	log *zap.Logger
}

func OpenArchive(dir string, log *zap.Logger) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Archive{db: db, log: log}, nil
}

func (a *Archive) Publish(md book.MarketData) {
	payload, err := EncodeSnapshot(md)
	if err != nil {
		a.log.Error("encode snapshot", zap.Error(err))
		return
	}
	if err := a.db.Set(a.key(md.Instrument), payload, pebble.NoSync); err != nil {
		a.log.Warn("archive write failed", zap.Error(err))
	}
}

// key layout: instrument | 0x00 | counter (big endian).
func (a *Archive) key(instrument string) []byte {
	n := a.seq.Add(1)
	k := make([]byte, 0, len(instrument)+9)
	k = append(k, instrument...)
	k = append(k, 0)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return append(k, buf[:]...)
}

func (a *Archive) Close() error {
	return a.db.Close()
}
