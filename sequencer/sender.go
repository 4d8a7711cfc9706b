package sequencer

import "github.com/Layer-V/orderbook/command"

// Sender submits commands to a Sequencer without exposing the rest of its
// API. It is cheap to copy and safe for concurrent use by multiple
// goroutines.
type Sender[T any] struct {
	submissions chan<- submission[T]
	closed      <-chan struct{}
}

// Submit enqueues cmd and blocks until the event loop has executed it,
// returning the resulting Receipt. It returns an error only if the
// Sequencer was shut down before a receipt could be produced.
func (s Sender[T]) Submit(cmd command.Command[T]) (command.Receipt, error) {
	reply := make(chan command.Receipt, 1)

	select {
	case s.submissions <- submission[T]{cmd: cmd, reply: reply}:
	case <-s.closed:
		return command.Receipt{}, &Error{Kind: ErrorKindShutdown}
	}

	select {
	case receipt := <-reply:
		return receipt, nil
	case <-s.closed:
		// Shutdown raced with an already-enqueued submission; the drain
		// loop may still deliver the receipt before exiting.
		select {
		case receipt := <-reply:
			return receipt, nil
		default:
			return command.Receipt{}, &Error{Kind: ErrorKindShutdown}
		}
	}
}
