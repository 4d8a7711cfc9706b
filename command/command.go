// Package command defines the tagged-union value types (commands, results,
// events, and receipts) that flow through the sequencer.
package command

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/Layer-V/orderbook/matching"
)

// Kind identifies which operation a Command carries.
type Kind uint8

const (
	// KindAddOrder submits a new order to the book.
	KindAddOrder Kind = iota
	// KindCancelOrder cancels an existing order by ID.
	KindCancelOrder
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindAddOrder:
		return "ADD_ORDER"
	case KindCancelOrder:
		return "CANCEL_ORDER"
	default:
		return "UNKNOWN"
	}
}

// Command is a tagged union over the operations the sequencer accepts.
// It is a value type: copying it never aliases mutable state. Ext carries
// a user-defined extension payload attached to the order; the sequencer
// and book never inspect it, only move it around.
type Command[T any] struct {
	Kind Kind

	// Order is populated when Kind == KindAddOrder.
	Order matching.Order
	// Ext is the caller-supplied extension payload attached to Order.
	Ext T

	// OrderID is populated when Kind == KindCancelOrder.
	OrderID uint64
}

// AddOrder builds a Command that submits order to the book.
func AddOrder[T any](order matching.Order, ext T) Command[T] {
	return Command[T]{Kind: KindAddOrder, Order: order, Ext: ext}
}

// CancelOrder builds a Command that cancels an existing order.
func CancelOrder[T any](orderID uint64) Command[T] {
	return Command[T]{Kind: KindCancelOrder, OrderID: orderID}
}

// String returns the string representation of a Command.
func (c Command[T]) String() string {
	switch c.Kind {
	case KindAddOrder:
		return fmt.Sprintf("Command(AddOrder, %s)", c.Order.String())
	case KindCancelOrder:
		return fmt.Sprintf("Command(CancelOrder, id=%d)", c.OrderID)
	default:
		return "Command(UNKNOWN)"
	}
}

// ResultKind identifies the outcome of an executed command.
type ResultKind uint8

const (
	// ResultOrderAdded indicates the order was accepted onto the book.
	ResultOrderAdded ResultKind = iota
	// ResultOrderCancelled indicates the order was removed from the book.
	ResultOrderCancelled
	// ResultTradeExecuted indicates an add triggered matching. Reserved by
	// the taxonomy; the current execution path never produces it.
	ResultTradeExecuted
	// ResultRejected indicates the command had no effect on the book.
	ResultRejected
)

// String returns the string representation of a ResultKind.
func (k ResultKind) String() string {
	switch k {
	case ResultOrderAdded:
		return "ORDER_ADDED"
	case ResultOrderCancelled:
		return "ORDER_CANCELLED"
	case ResultTradeExecuted:
		return "TRADE_EXECUTED"
	case ResultRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Result is a tagged union over the outcome of executing a Command.
type Result struct {
	Kind ResultKind

	// OrderID is the affected order, set for every kind.
	OrderID uint64

	// Err carries the book-level rejection reason when Kind == ResultRejected.
	Err error
}

// Added builds a successful order-added Result.
func Added(orderID uint64) Result {
	return Result{Kind: ResultOrderAdded, OrderID: orderID}
}

// Cancelled builds a successful order-cancelled Result.
func Cancelled(orderID uint64) Result {
	return Result{Kind: ResultOrderCancelled, OrderID: orderID}
}

// Rejected builds a Rejected Result carrying the book's error.
func Rejected(orderID uint64, err error) Result {
	return Result{Kind: ResultRejected, OrderID: orderID, Err: err}
}

// IsSuccess returns true unless the command was rejected.
func (r Result) IsSuccess() bool {
	return r.Kind != ResultRejected
}

// IsRejected returns true if the command had no effect on the book.
func (r Result) IsRejected() bool {
	return r.Kind == ResultRejected
}

// String returns the string representation of a Result.
func (r Result) String() string {
	if r.Kind == ResultRejected {
		return fmt.Sprintf("Result(Rejected, id=%d, err=%v)", r.OrderID, r.Err)
	}
	return fmt.Sprintf("Result(%s, id=%d)", r.Kind, r.OrderID)
}

// resultGob is the wire shape for Result, with Err flattened to its
// message. A replayed Result carries the original message but not the
// original error's concrete type.
type resultGob struct {
	Kind    ResultKind
	OrderID uint64
	Err     string
}

// GobEncode implements gob.GobEncoder.
func (r Result) GobEncode() ([]byte, error) {
	aux := resultGob{Kind: r.Kind, OrderID: r.OrderID}
	if r.Err != nil {
		aux.Err = r.Err.Error()
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(aux); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (r *Result) GobDecode(data []byte) error {
	var aux resultGob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&aux); err != nil {
		return err
	}
	r.Kind = aux.Kind
	r.OrderID = aux.OrderID
	r.Err = nil
	if aux.Err != "" {
		r.Err = errors.New(aux.Err)
	}
	return nil
}

// Event is the authoritative record of one command executed by the
// sequencer: its assigned sequence number, the wall-clock time it ran at,
// the exact command that was executed, and the resulting outcome.
type Event[T any] struct {
	SequenceNum uint64
	TimestampNs uint64
	Command     Command[T]
	Result      Result
}

// NewEvent builds an Event.
func NewEvent[T any](seq, ts uint64, cmd Command[T], result Result) Event[T] {
	return Event[T]{SequenceNum: seq, TimestampNs: ts, Command: cmd, Result: result}
}

// Receipt is returned to the submitter of a Command.
type Receipt struct {
	SequenceNum uint64
	Result      Result
}

// IsSuccess returns true unless the underlying Result was rejected.
func (r Receipt) IsSuccess() bool {
	return r.Result.IsSuccess()
}
