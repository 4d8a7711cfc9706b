package replay

import "fmt"

// ErrorKind identifies why a replay operation failed.
type ErrorKind uint8

const (
	// ErrorKindEmptyJournal indicates the journal holds no events.
	ErrorKindEmptyJournal ErrorKind = iota
	// ErrorKindInvalidSequence indicates the requested start exceeds the
	// journal's last stored sequence number.
	ErrorKindInvalidSequence
	// ErrorKindSequenceGap is reserved for stricter journal checks. No code
	// path in this module produces it: neither the replay engine nor
	// FileJournal's recovery checks for sequence gaps.
	ErrorKindSequenceGap
	// ErrorKindOrderBookError indicates the book rejected an event that
	// originally succeeded (non-determinism or journal corruption).
	ErrorKindOrderBookError
	// ErrorKindSnapshotMismatch indicates a verified replay diverged from
	// the expected snapshot.
	ErrorKindSnapshotMismatch
)

// Error is returned by every replay entry point.
type Error struct {
	Kind ErrorKind

	// From and Last are set for ErrorKindInvalidSequence.
	From uint64
	Last uint64

	// Expected and Found are set for ErrorKindSequenceGap.
	Expected uint64
	Found    uint64

	// SequenceNum is set for ErrorKindOrderBookError.
	SequenceNum uint64
	// Err is the underlying book error for ErrorKindOrderBookError.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case ErrorKindEmptyJournal:
		return "replay: journal is empty"
	case ErrorKindInvalidSequence:
		return fmt.Sprintf("replay: invalid from_sequence %d: journal last sequence is %d", e.From, e.Last)
	case ErrorKindSequenceGap:
		return fmt.Sprintf("replay: sequence gap detected: expected %d, found %d", e.Expected, e.Found)
	case ErrorKindOrderBookError:
		return fmt.Sprintf("replay: order book error during replay at sequence %d: %v", e.SequenceNum, e.Err)
	case ErrorKindSnapshotMismatch:
		return "replay: snapshot mismatch: replayed state diverges from expected snapshot"
	default:
		return "replay: error"
	}
}

// Unwrap exposes the underlying book error, if any, for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
