package journal

import (
	"sort"

	"github.com/Layer-V/orderbook/command"
)

// InMemoryJournal is the reference Journal implementation: events are kept
// in an ordered, contiguous, in-process slice. Entries are guaranteed
// sorted by sequence number whenever the sequencer is the sole appender,
// which lets reads use binary search instead of a linear scan.
type InMemoryJournal[T any] struct {
	events []command.Event[T]
}

var _ Journal[struct{}] = (*InMemoryJournal[struct{}])(nil)

// NewInMemoryJournal creates an empty journal.
func NewInMemoryJournal[T any]() *InMemoryJournal[T] {
	return &InMemoryJournal[T]{}
}

// NewInMemoryJournalWithCapacity creates an empty journal with storage
// pre-allocated for capacity events.
func NewInMemoryJournalWithCapacity[T any](capacity int) *InMemoryJournal[T] {
	return &InMemoryJournal[T]{events: make([]command.Event[T], 0, capacity)}
}

// Append stores event. It never fails.
func (j *InMemoryJournal[T]) Append(event command.Event[T]) error {
	j.events = append(j.events, event)
	return nil
}

// Len returns the number of stored events.
func (j *InMemoryJournal[T]) Len() int {
	return len(j.events)
}

// IsEmpty reports whether the journal holds no events.
func (j *InMemoryJournal[T]) IsEmpty() bool {
	return len(j.events) == 0
}

// LastSequence returns the highest stored sequence number.
func (j *InMemoryJournal[T]) LastSequence() (uint64, bool) {
	if len(j.events) == 0 {
		return 0, false
	}
	return j.events[len(j.events)-1].SequenceNum, true
}

// ReadFrom returns every event with SequenceNum >= from.
func (j *InMemoryJournal[T]) ReadFrom(from uint64) ([]command.Event[T], error) {
	idx := sort.Search(len(j.events), func(i int) bool {
		return j.events[i].SequenceNum >= from
	})
	out := make([]command.Event[T], len(j.events)-idx)
	copy(out, j.events[idx:])
	return out, nil
}

// ReadRange returns every event with SequenceNum in [from, to].
func (j *InMemoryJournal[T]) ReadRange(from, to uint64) ([]command.Event[T], error) {
	start := sort.Search(len(j.events), func(i int) bool {
		return j.events[i].SequenceNum >= from
	})
	end := sort.Search(len(j.events), func(i int) bool {
		return j.events[i].SequenceNum > to
	})
	if end < start {
		end = start
	}
	out := make([]command.Event[T], end-start)
	copy(out, j.events[start:end])
	return out, nil
}
