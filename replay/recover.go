package replay

import (
	"fmt"

	"github.com/Layer-V/orderbook/book"
	"github.com/Layer-V/orderbook/journal"
)

// Recover restores a book to its last known state: it loads the most
// recent snapshot from snapshotter (if any), restores its resident orders,
// then replays only the journal events strictly after the snapshot's
// captured sequence number. It returns the reconstructed book and the
// sequence number of the last event applied (the snapshot's own sequence
// if the journal contributed nothing beyond it, or 0 if neither a
// snapshot nor a journal event exists).
func Recover[T any](j journal.Journal[T], snapshotter *journal.Snapshotter[[]book.ResidentOrder[T]], symbol string) (*book.Book[T], uint64, error) {
	orders, snapshotSeq, hasSnapshot, err := snapshotter.LoadLatest()
	if err != nil {
		return nil, 0, fmt.Errorf("replay: loading snapshot: %w", err)
	}

	bk := book.NewBook[T](symbol)
	if hasSnapshot {
		if err := bk.RestoreOrders(orders); err != nil {
			return nil, 0, fmt.Errorf("replay: restoring snapshot orders: %w", err)
		}
	}

	if j.IsEmpty() {
		return bk, snapshotSeq, nil
	}

	last, _ := j.LastSequence()
	if snapshotSeq >= last {
		return bk, snapshotSeq, nil
	}

	events, err := j.ReadFrom(snapshotSeq + 1)
	if err != nil {
		return nil, 0, fmt.Errorf("replay: reading journal: %w", err)
	}

	lastApplied := snapshotSeq
	for _, event := range events {
		if err := applyEvent(bk, event); err != nil {
			return nil, 0, err
		}
		lastApplied = event.SequenceNum
	}
	return bk, lastApplied, nil
}
