package marketdata

import (
	"encoding/json"

	"bourse/domain/book"
)

// wire is the published snapshot layout. Prices and quantities travel
// as decimal strings so consumers never round them.
type wire struct {
	Instrument string      `json:"instrument"`
	Bids       []wireLevel `json:"bids"`
	Asks       []wireLevel `json:"asks"`
	Timestamp  int64       `json:"ts_ns"`
}

type wireLevel struct {
	Price    string `json:"price"`
	Quantity string `json:"qty"`
}

// EncodeSnapshot is the codec shared by the Kafka publisher, the
// archive and the periodic broadcaster.
func EncodeSnapshot(md book.MarketData) ([]byte, error) {
	w := wire{
		Instrument: md.Instrument,
		Bids:       toWireLevels(md.Bids),
		Asks:       toWireLevels(md.Asks),
		Timestamp:  md.Timestamp.UnixNano(),
	}
	return json.Marshal(w)
}

func toWireLevels(levels []book.PriceQuantity) []wireLevel {
	out := make([]wireLevel, len(levels))
	for i, pq := range levels {
		out[i] = wireLevel{Price: pq.Price.String(), Quantity: pq.Quantity.String()}
	}
	return out
}
