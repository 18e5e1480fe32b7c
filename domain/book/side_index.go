package book

import (
	"github.com/shopspring/decimal"
	"github.com/zhangyunhao116/skipmap"
)

// sideIndex is one price-ordered half of the book: bids descending,
// asks ascending. The skip map supports concurrent insert, remove and
// best-entry queries without a book-wide lock, so orders at different
// prices never serialize through it.
type sideIndex struct {
	side   Side
	levels *skipmap.FuncMap[decimal.Decimal, *PriceLevel]
}

func newSideIndex(side Side) *sideIndex {
	less := func(a, b decimal.Decimal) bool { return a.Cmp(b) < 0 }
	if side == Buy {
		less = func(a, b decimal.Decimal) bool { return a.Cmp(b) > 0 }
	}
	return &sideIndex{
		side:   side,
		levels: skipmap.NewFunc[decimal.Decimal, *PriceLevel](less),
	}
}

// best returns the level closest to the spread, if any.
func (s *sideIndex) best() (*PriceLevel, bool) {
	var lvl *PriceLevel
	s.levels.Range(func(_ decimal.Decimal, l *PriceLevel) bool {
		lvl = l
		return false
	})
	return lvl, lvl != nil
}

// getOrCreate returns the level at price, creating it if absent. At
// most one level per price per side.
func (s *sideIndex) getOrCreate(price decimal.Decimal) *PriceLevel {
	lvl, _ := s.levels.LoadOrStoreLazy(price, func() *PriceLevel {
		return newPriceLevel(price, s.side)
	})
	return lvl
}

func (s *sideIndex) get(price decimal.Decimal) (*PriceLevel, bool) {
	return s.levels.Load(price)
}

func (s *sideIndex) remove(price decimal.Decimal) {
	s.levels.Delete(price)
}

// ascend walks levels best-first until fn returns false.
func (s *sideIndex) ascend(fn func(*PriceLevel) bool) {
	s.levels.Range(func(_ decimal.Decimal, l *PriceLevel) bool {
		return fn(l)
	})
}

func (s *sideIndex) depth() int {
	return s.levels.Len()
}
