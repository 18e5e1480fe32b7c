// Package book implements the in-memory limit-order book for a single
// instrument. It keeps two price-ordered sides of locked FIFO price
// levels, matches incoming orders under price-time priority, and builds
// immutable depth snapshots for publication.
//
// The book is safe for concurrent use: the side indexes are lock-free
// skip maps, every price level owns its own mutex, and order quantities
// are updated with compare-and-swap loops. Two orders working different
// prices never serialize against each other.
package book
