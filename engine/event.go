package engine

import "bourse/domain/book"

type EventType uint8

const (
	EventAdd EventType = iota
	EventCancel
)

func (t EventType) String() string {
	if t == EventAdd {
		return "ADD"
	}
	return "CANCEL"
}

// OrderEvent is the bounded event-log record of one accepted
// submission. The engine produces one per add/cancel; draining the log
// is left to a future consumer, the buffer's own offer/poll contract is
// what matters here.
type OrderEvent struct {
	Type     EventType
	OrderID  string
	Order    *book.Order // nil for cancels
	Sequence uint64
}
