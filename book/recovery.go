package book

import "github.com/Layer-V/orderbook/matching"

// ResidentOrder pairs a resting order with the extension payload it was
// added with. A slice of these is everything a Book needs to reconstruct
// its exact state (including partial fills) for disaster-recovery
// snapshotting.
type ResidentOrder[T any] struct {
	Order matching.Order
	Ext   T
}

// DumpOrders returns every order currently resting on the book. Order is
// unspecified; callers that need a deterministic order should sort the
// result themselves.
func (b *Book[T]) DumpOrders() []ResidentOrder[T] {
	orders := make([]ResidentOrder[T], 0, len(b.ext))
	for id, ext := range b.ext {
		node := b.mm.GetOrder(id)
		if node == nil {
			continue
		}
		orders = append(orders, ResidentOrder[T]{Order: node.Order, Ext: ext})
	}
	return orders
}

// RestoreOrders re-adds previously dumped orders to b, preserving their
// executed/leaves quantities exactly. b should be freshly constructed:
// resident orders on a live book never cross each other, so replaying them
// in any order through the regular AddOrder path reproduces the same state
// without triggering a spurious match or post-only rejection.
func (b *Book[T]) RestoreOrders(orders []ResidentOrder[T]) error {
	for _, ro := range orders {
		if _, err := b.AddOrder(ro.Order, ro.Ext); err != nil {
			return err
		}
	}
	return nil
}
