package replay

import (
	"path/filepath"
	"testing"

	"github.com/Layer-V/orderbook/book"
	"github.com/Layer-V/orderbook/journal"
)

func journalAt(t *testing.T, dir string) (*journal.FileJournal[string], error) {
	t.Helper()
	return journal.OpenFileJournal[string](filepath.Join(dir, "events.journal"))
}

func newSnapshotter(dir string) (*journal.Snapshotter[[]book.ResidentOrder[string]], error) {
	return journal.NewSnapshotter[[]book.ResidentOrder[string]](filepath.Join(dir, "snapshots"))
}
