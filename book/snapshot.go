package book

import "sort"

// PriceLevel is one resting price level: how much is visible to trade at
// Price. Hidden quantity and order counts are intentionally omitted; visible
// liquidity is the durable, comparable contract.
type PriceLevel struct {
	Price           uint64
	VisibleQuantity uint64
}

// Snapshot is a point-in-time view of both sides of a book.
type Snapshot struct {
	Symbol string
	// TimestampNs is the wall-clock time the snapshot was captured at. It
	// is excluded from SnapshotsMatch: replays happen at a different clock.
	TimestampNs uint64
	// Bids is ordered best-first (descending price) as produced by
	// CreateSnapshot; SnapshotsMatch re-sorts defensively before comparing.
	Bids []PriceLevel
	// Asks is ordered best-first (ascending price).
	Asks []PriceLevel
}

// SnapshotsMatch reports whether actual and expected describe the same
// book state, ignoring capture time. Both sides are sorted independently
// before comparison so the caller need not have produced them in order.
func SnapshotsMatch(actual, expected Snapshot) bool {
	if actual.Symbol != expected.Symbol {
		return false
	}
	return levelsMatch(actual.Bids, expected.Bids, descending) &&
		levelsMatch(actual.Asks, expected.Asks, ascending)
}

const (
	descending = true
	ascending  = false
)

func levelsMatch(a, b []PriceLevel, sortDescending bool) bool {
	if len(a) != len(b) {
		return false
	}
	a = sortedCopy(a, sortDescending)
	b = sortedCopy(b, sortDescending)
	for i := range a {
		if a[i].Price != b[i].Price || a[i].VisibleQuantity != b[i].VisibleQuantity {
			return false
		}
	}
	return true
}

func sortedCopy(levels []PriceLevel, desc bool) []PriceLevel {
	out := make([]PriceLevel, len(levels))
	copy(out, levels)
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].Price > out[j].Price
		}
		return out[i].Price < out[j].Price
	})
	return out
}
