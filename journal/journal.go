// Package journal provides an append-only, ordered log of sequencer events,
// with an in-memory reference implementation and a durable file-backed one.
package journal

import "github.com/Layer-V/orderbook/command"

// Journal is an append-only, ordered log of events parameterized by the
// extension payload type T carried on each event's command. Append is
// infallible except for storage-level errors: ordering is the sequencer's
// responsibility, not the journal's.
type Journal[T any] interface {
	// Append stores event.
	Append(event command.Event[T]) error

	// ReadFrom returns every stored event with SequenceNum >= from, in
	// ascending sequence order.
	ReadFrom(from uint64) ([]command.Event[T], error)

	// ReadRange returns every stored event with SequenceNum in [from, to],
	// in ascending sequence order, bounds inclusive.
	ReadRange(from, to uint64) ([]command.Event[T], error)

	// Len returns the number of stored events.
	Len() int

	// IsEmpty reports whether the journal holds no events.
	IsEmpty() bool

	// LastSequence returns the highest stored sequence number. ok is false
	// when the journal is empty.
	LastSequence() (seq uint64, ok bool)
}
