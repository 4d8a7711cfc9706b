// Package replay reconstructs book state by re-applying events from a
// journal prefix or range, and verifies a journal against an expected
// snapshot. It is a stateless namespace: every entry point takes a
// journal.Journal[T] and returns a fresh result, never mutating its input.
package replay

import (
	"github.com/Layer-V/orderbook/book"
	"github.com/Layer-V/orderbook/command"
	"github.com/Layer-V/orderbook/journal"
)

// ProgressFunc is invoked after each event is applied during
// ReplayFromWithProgress, receiving the running count of applied events
// and the sequence number just applied.
type ProgressFunc func(eventsApplied int, currentSeq uint64)

// ReplayFrom reconstructs a fresh book for symbol by applying every event
// in j with SequenceNum >= fromSeq, in order. It returns the book and the
// sequence number of the last event applied.
func ReplayFrom[T any](j journal.Journal[T], fromSeq uint64, symbol string) (*book.Book[T], uint64, error) {
	return ReplayFromWithProgress[T](j, fromSeq, symbol, nil)
}

// ReplayFromWithProgress is ReplayFrom with an optional progress callback
// invoked after each event is applied.
func ReplayFromWithProgress[T any](j journal.Journal[T], fromSeq uint64, symbol string, progress ProgressFunc) (*book.Book[T], uint64, error) {
	if err := checkRange(j, fromSeq); err != nil {
		return nil, 0, err
	}

	events, err := j.ReadFrom(fromSeq)
	if err != nil {
		return nil, 0, err
	}

	bk := book.NewBook[T](symbol)
	var lastSeq uint64
	count := 0
	for _, event := range events {
		if err := applyEvent(bk, event); err != nil {
			return nil, 0, err
		}
		lastSeq = event.SequenceNum
		count++
		if progress != nil {
			progress(count, lastSeq)
		}
	}
	return bk, lastSeq, nil
}

// ReplayRange returns the stored events with SequenceNum in [fromSeq,
// toSeq], bounds inclusive. No book is constructed; this is a pure read
// path over the journal.
func ReplayRange[T any](j journal.Journal[T], fromSeq, toSeq uint64) ([]command.Event[T], error) {
	if err := checkRange(j, fromSeq); err != nil {
		return nil, err
	}
	return j.ReadRange(fromSeq, toSeq)
}

// Verify replays the full journal into a fresh book using expected.Symbol,
// snapshots the result with unbounded depth, and reports whether it
// matches expected.
func Verify[T any](j journal.Journal[T], expected book.Snapshot) (bool, error) {
	bk, _, err := ReplayFrom[T](j, 0, expected.Symbol)
	if err != nil {
		return false, err
	}
	actual := bk.CreateSnapshot(book.UnboundedDepth)
	return book.SnapshotsMatch(actual, expected), nil
}

// checkRange applies the precondition checks shared by every replay entry
// point: the journal must hold at least one event, and fromSeq must not
// exceed the last stored sequence number.
func checkRange[T any](j journal.Journal[T], fromSeq uint64) error {
	last, ok := j.LastSequence()
	if !ok {
		return &Error{Kind: ErrorKindEmptyJournal}
	}
	if fromSeq > last {
		return &Error{Kind: ErrorKindInvalidSequence, From: fromSeq, Last: last}
	}
	return nil
}

// applyEvent applies a single event to bk, following the replay rules:
// rejected commands are skipped, a cancel of an already-absent order is
// tolerated silently, and any other book error aborts the replay.
func applyEvent[T any](bk *book.Book[T], event command.Event[T]) error {
	if event.Result.IsRejected() {
		return nil
	}

	switch event.Command.Kind {
	case command.KindAddOrder:
		if _, err := bk.AddOrder(event.Command.Order, event.Command.Ext); err != nil {
			return &Error{Kind: ErrorKindOrderBookError, SequenceNum: event.SequenceNum, Err: err}
		}
	case command.KindCancelOrder:
		if _, err := bk.CancelOrder(event.Command.OrderID); err != nil {
			return &Error{Kind: ErrorKindOrderBookError, SequenceNum: event.SequenceNum, Err: err}
		}
	}
	return nil
}
