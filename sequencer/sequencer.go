// Package sequencer provides a single-writer event loop that assigns every
// accepted command a monotonic sequence number and nanosecond timestamp,
// applies it to a book, fans the resulting event out to listeners, and
// replies to the submitter. All commands are totally ordered: no two
// callers ever observe a different order of events.
package sequencer

import (
	"errors"
	"sync"
	"time"

	"github.com/Layer-V/orderbook/book"
	"github.com/Layer-V/orderbook/command"
	"github.com/Layer-V/orderbook/matching"
)

// defaultCapacity is the ingress channel's default buffer size.
const defaultCapacity = 65536

// ErrOrderNotFound is the rejection reason for cancelling an order the
// book no longer has. It is used only when the book reports the order
// absent without an error; a book error is passed through unchanged as
// the rejection reason instead.
var ErrOrderNotFound = errors.New("sequencer: order not found")

// Book is the contract the sequencer depends on. book.Book[T] satisfies
// it; callers needing a test double only need to implement these two
// methods.
type Book[T any] interface {
	AddOrder(order matching.Order, ext T) (book.AddOutcome, error)
	CancelOrder(orderID uint64) (*book.RemovedOrder[T], error)
}

// Listener is invoked synchronously, once per event, in registration
// order, from inside the sequencer's own event-loop goroutine. It must
// not block indefinitely, since doing so stalls every subsequent command.
type Listener[T any] func(*command.Event[T])

// submission pairs a command with the private reply channel its receipt
// is delivered on.
type submission[T any] struct {
	cmd   command.Command[T]
	reply chan command.Receipt
}

// Sequencer is a single-writer engine over a Book[T]. Construct with New
// or WithCapacity, register listeners, then Spawn exactly once.
type Sequencer[T any] struct {
	bk        Book[T]
	listeners []Listener[T]
	spawned   bool

	submissions chan submission[T]
	closed      chan struct{}
	closeOnce   sync.Once

	nextSeq uint64
}

// New creates a Sequencer over bk with the default ingress channel
// capacity (65,536).
func New[T any](bk Book[T]) *Sequencer[T] {
	return WithCapacity[T](bk, defaultCapacity)
}

// WithCapacity creates a Sequencer over bk with a specific ingress channel
// capacity. The channel provides bounded backpressure: once full,
// Submit blocks until room frees up.
func WithCapacity[T any](bk Book[T], capacity int) *Sequencer[T] {
	return &Sequencer[T]{
		bk:          bk,
		submissions: make(chan submission[T], capacity),
		closed:      make(chan struct{}),
		nextSeq:     1,
	}
}

// AddListener registers a listener to be invoked for every event in
// ascending sequence order. It panics if called after Spawn: listeners
// are frozen the moment the event loop starts.
func (s *Sequencer[T]) AddListener(l Listener[T]) {
	if s.spawned {
		panic("sequencer: AddListener called after Spawn")
	}
	s.listeners = append(s.listeners, l)
}

// Sender returns a submission handle. Multiple goroutines may hold and use
// one concurrently; every Sender for the same Sequencer shares the same
// ingress channel.
func (s *Sequencer[T]) Sender() Sender[T] {
	return Sender[T]{submissions: s.submissions, closed: s.closed}
}

// Submit is a convenience wrapper around Sender().Submit.
func (s *Sequencer[T]) Submit(cmd command.Command[T]) (command.Receipt, error) {
	return s.Sender().Submit(cmd)
}

// Shutdown signals the event loop to stop accepting new submissions. Any
// submission already enqueued is still processed before the loop exits.
// Shutdown is safe to call more than once, including concurrently with
// an in-flight Submit on the same Sequencer: the closed channel and
// sync.Once rule out a send on a closed channel in either direction.
func (s *Sequencer[T]) Shutdown() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Spawn starts the event loop on a dedicated goroutine and freezes the
// listener list. It is one-shot: calling it twice panics.
func (s *Sequencer[T]) Spawn() *Handle {
	if s.spawned {
		panic("sequencer: Spawn called twice")
	}
	s.spawned = true

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.runLoop()
	}()
	return &Handle{done: done}
}

// runLoop is the single consumer of the ingress channel: it owns the
// sequence counter and the book exclusively, so neither needs locking.
func (s *Sequencer[T]) runLoop() {
	for {
		select {
		case sub := <-s.submissions:
			s.process(sub)
		case <-s.closed:
			s.drain()
			return
		}
	}
}

// drain processes every submission already buffered in the channel before
// the loop exits, so a Shutdown racing with an in-flight Submit still gets
// a receipt back whenever possible.
func (s *Sequencer[T]) drain() {
	for {
		select {
		case sub := <-s.submissions:
			s.process(sub)
		default:
			return
		}
	}
}

func (s *Sequencer[T]) process(sub submission[T]) {
	seq := s.nextSeq
	s.nextSeq++
	ts := nanosSinceEpoch()

	result := s.execute(sub.cmd)
	event := command.NewEvent(seq, ts, sub.cmd, result)

	for _, listener := range s.listeners {
		listener(&event)
	}

	sub.reply <- command.Receipt{SequenceNum: event.SequenceNum, Result: event.Result}
}

func (s *Sequencer[T]) execute(cmd command.Command[T]) command.Result {
	switch cmd.Kind {
	case command.KindAddOrder:
		outcome, err := s.bk.AddOrder(cmd.Order, cmd.Ext)
		if err != nil {
			return command.Rejected(cmd.Order.ID, err)
		}
		return command.Added(outcome.OrderID)

	case command.KindCancelOrder:
		removed, err := s.bk.CancelOrder(cmd.OrderID)
		if err != nil {
			return command.Rejected(cmd.OrderID, err)
		}
		if removed == nil {
			return command.Rejected(cmd.OrderID, ErrOrderNotFound)
		}
		return command.Cancelled(cmd.OrderID)

	default:
		return command.Rejected(0, errors.New("sequencer: unknown command kind"))
	}
}

// nanosSinceEpoch returns the current Unix time in nanoseconds, or 0 if
// the system clock reports a time before the epoch.
func nanosSinceEpoch() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		return 0
	}
	return uint64(now)
}
