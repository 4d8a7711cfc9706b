// Package book adapts the matching engine to the narrow contract the
// sequencer depends on: add an order, cancel an order, take a snapshot.
// It restricts a matching.MarketManager to exactly one symbol so that
// callers never have to think about cross-symbol state.
package book

import (
	"fmt"
	"math"
	"time"

	"github.com/Layer-V/orderbook/matching"
)

// UnboundedDepth requests every resident price level from CreateSnapshot.
const UnboundedDepth = math.MaxInt

// bookSymbolID is the only symbol ID a Book ever registers with its
// underlying market manager; callers address the book by name, not by ID.
const bookSymbolID uint32 = 1

// OrderBookError wraps a matching engine ErrorCode so that book callers see
// a normal Go error without reaching into the matching package.
type OrderBookError struct {
	Code matching.ErrorCode
}

// Error implements the error interface.
func (e *OrderBookError) Error() string {
	if err := e.Code.Error(); err != nil {
		return fmt.Sprintf("book: %v", err)
	}
	return fmt.Sprintf("book: %s", e.Code)
}

// Unwrap exposes the matching package's sentinel error for errors.Is checks.
func (e *OrderBookError) Unwrap() error {
	return e.Code.Error()
}

// AddOutcome describes the result of a successful AddOrder call.
type AddOutcome struct {
	// OrderID is the identifier the order was admitted under.
	OrderID uint64
}

// RemovedOrder describes an order removed by CancelOrder, including the
// extension payload it was added with so callers can report on it without
// keeping a side table of their own.
type RemovedOrder[T any] struct {
	OrderID        uint64
	Side           matching.OrderSide
	Price          uint64
	LeavesQuantity uint64
	Ext            T
}

// Book is a single-symbol view over a matching engine. T is an opaque
// extension payload attached to each resident order; Book stores it and
// hands it back on cancellation but never inspects it.
type Book[T any] struct {
	symbol matching.Symbol
	mm     *matching.MarketManager
	ext    map[uint64]T
}

// NewBook creates a fresh, empty book for symbol.
func NewBook[T any](symbol string) *Book[T] {
	sym := matching.NewSymbol(bookSymbolID, symbol)
	mm := matching.NewMarketManager()
	mm.EnableMatching()
	mm.AddSymbol(sym)
	mm.AddOrderBook(sym)

	return &Book[T]{
		symbol: sym,
		mm:     mm,
		ext:    make(map[uint64]T),
	}
}

// Symbol returns the book's symbol name.
func (b *Book[T]) Symbol() string {
	return b.symbol.Name
}

// AddOrder submits order to the book, attaching ext to it for later
// retrieval through CancelOrder. order.SymbolID is overwritten with the
// book's own symbol ID; callers never need to know it.
func (b *Book[T]) AddOrder(order matching.Order, ext T) (AddOutcome, error) {
	order.SymbolID = bookSymbolID

	if code := b.mm.AddOrder(order); code != matching.ErrorOK {
		return AddOutcome{}, &OrderBookError{Code: code}
	}

	b.ext[order.ID] = ext
	return AddOutcome{OrderID: order.ID}, nil
}

// CancelOrder removes orderID from the book. A nil, nil return means the
// order was already gone (already matched away or previously cancelled);
// only an unexpected engine failure returns a non-nil error.
func (b *Book[T]) CancelOrder(orderID uint64) (*RemovedOrder[T], error) {
	node := b.mm.GetOrder(orderID)
	if node == nil {
		return nil, nil
	}

	removed := &RemovedOrder[T]{
		OrderID:        node.ID,
		Side:           node.Side,
		Price:          node.Price,
		LeavesQuantity: node.LeavesQuantity,
		Ext:            b.ext[orderID],
	}

	if code := b.mm.DeleteOrder(orderID); code != matching.ErrorOK {
		return nil, &OrderBookError{Code: code}
	}
	delete(b.ext, orderID)

	return removed, nil
}

// CreateSnapshot takes a point-in-time view of both sides of the book, up
// to depth price levels per side. Pass UnboundedDepth for every level.
func (b *Book[T]) CreateSnapshot(depth int) Snapshot {
	ob := b.mm.GetOrderBook(bookSymbolID)

	return Snapshot{
		Symbol:      b.symbol.Name,
		TimestampNs: uint64(time.Now().UnixNano()),
		Bids:        collectLevels(ob.Bids(), depth),
		Asks:        collectLevels(ob.Asks(), depth),
	}
}

// collectLevels walks tree in its natural priority order (best level
// first, on both the bid and ask trees) and stops after depth levels.
func collectLevels(tree *matching.AVLTree, depth int) []PriceLevel {
	levels := make([]PriceLevel, 0, min(tree.Size(), depth))
	count := 0
	tree.ForEach(func(node *matching.LevelNode) bool {
		if count >= depth {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:           node.Price,
			VisibleQuantity: node.VisibleVolume,
		})
		count++
		return true
	})
	return levels
}
