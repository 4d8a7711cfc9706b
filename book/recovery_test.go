package book

import (
	"testing"

	"github.com/Layer-V/orderbook/matching"
)

func TestBook_DumpAndRestoreOrders(t *testing.T) {
	src := NewBook[string]("AAPL")
	if _, err := src.AddOrder(*matching.NewLimitOrder(1, 0, matching.OrderSideBuy, 100, 10), "bid-1"); err != nil {
		t.Fatalf("AddOrder: %v", err)
	}
	if _, err := src.AddOrder(*matching.NewLimitOrder(2, 0, matching.OrderSideSell, 150, 5), "ask-1"); err != nil {
		t.Fatalf("AddOrder: %v", err)
	}

	dumped := src.DumpOrders()
	if len(dumped) != 2 {
		t.Fatalf("expected 2 resident orders, got %d", len(dumped))
	}

	dst := NewBook[string]("AAPL")
	if err := dst.RestoreOrders(dumped); err != nil {
		t.Fatalf("RestoreOrders: %v", err)
	}

	want := src.CreateSnapshot(UnboundedDepth)
	got := dst.CreateSnapshot(UnboundedDepth)
	if !SnapshotsMatch(got, want) {
		t.Errorf("expected restored book to match the original, got %+v want %+v", got, want)
	}

	removed, err := dst.CancelOrder(1)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if removed == nil || removed.Ext != "bid-1" {
		t.Errorf("expected the restored order's extension payload to survive, got %+v", removed)
	}
}

func TestBook_DumpOrdersEmptyBook(t *testing.T) {
	b := NewBook[string]("AAPL")
	if dumped := b.DumpOrders(); len(dumped) != 0 {
		t.Errorf("expected no resident orders on a fresh book, got %d", len(dumped))
	}
}
