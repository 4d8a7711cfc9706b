package sequencer

import (
	"sync"
	"testing"

	"github.com/Layer-V/orderbook/book"
	"github.com/Layer-V/orderbook/command"
	"github.com/Layer-V/orderbook/matching"
)

func addCmd(id uint64, price uint64) command.Command[string] {
	order := *matching.NewLimitOrder(id, 0, matching.OrderSideBuy, price, 10)
	return command.AddOrder[string](order, "ext")
}

func TestSequencer_SequenceNumbersCoverEveryProducer(t *testing.T) {
	bk := book.NewBook[string]("TEST")
	seq := New[string](bk)
	handle := seq.Spawn()

	const producers, perProducer = 10, 10
	var wg sync.WaitGroup
	seqNums := make(chan uint64, producers*perProducer)

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				id := uint64(base*perProducer + i + 1)
				receipt, err := seq.Submit(addCmd(id, 10000+id))
				if err != nil {
					t.Errorf("Submit: %v", err)
					return
				}
				seqNums <- receipt.SequenceNum
			}
		}(p)
	}
	wg.Wait()
	close(seqNums)
	seq.Shutdown()
	handle.Wait()

	seen := make(map[uint64]bool)
	for n := range seqNums {
		if seen[n] {
			t.Fatalf("sequence number %d assigned twice", n)
		}
		seen[n] = true
	}
	if len(seen) != producers*perProducer {
		t.Fatalf("expected %d distinct sequence numbers, got %d", producers*perProducer, len(seen))
	}
	for n := uint64(1); n <= uint64(producers*perProducer); n++ {
		if !seen[n] {
			t.Errorf("missing sequence number %d", n)
		}
	}
}

func TestSequencer_RejectedCancelDoesNotHaltSequence(t *testing.T) {
	bk := book.NewBook[string]("TEST")
	seq := New[string](bk)
	handle := seq.Spawn()
	defer func() {
		seq.Shutdown()
		handle.Wait()
	}()

	rejected, err := seq.Submit(command.CancelOrder[string](999))
	if err != nil {
		t.Fatalf("Submit cancel: %v", err)
	}
	if !rejected.Result.IsRejected() {
		t.Fatalf("expected cancelling an unknown order to be rejected, got %v", rejected.Result)
	}
	if rejected.SequenceNum != 1 {
		t.Errorf("expected the rejected command to still consume sequence 1, got %d", rejected.SequenceNum)
	}

	added, err := seq.Submit(addCmd(1, 10100))
	if err != nil {
		t.Fatalf("Submit add: %v", err)
	}
	if !added.Result.IsSuccess() {
		t.Fatalf("expected the add to succeed, got %v", added.Result)
	}
	if added.SequenceNum != 2 {
		t.Errorf("expected sequencing to continue at 2, got %d", added.SequenceNum)
	}
}

func TestSequencer_AddThenCancelRoundTrip(t *testing.T) {
	bk := book.NewBook[string]("TEST")
	seq := New[string](bk)
	handle := seq.Spawn()
	defer func() {
		seq.Shutdown()
		handle.Wait()
	}()

	added, err := seq.Submit(addCmd(1, 10100))
	if err != nil {
		t.Fatalf("Submit add: %v", err)
	}
	if added.Result.Kind != command.ResultOrderAdded {
		t.Fatalf("expected ResultOrderAdded, got %v", added.Result)
	}

	cancelled, err := seq.Submit(command.CancelOrder[string](1))
	if err != nil {
		t.Fatalf("Submit cancel: %v", err)
	}
	if cancelled.Result.Kind != command.ResultOrderCancelled {
		t.Fatalf("expected ResultOrderCancelled, got %v", cancelled.Result)
	}

	snap := bk.CreateSnapshot(book.UnboundedDepth)
	if len(snap.Bids) != 0 {
		t.Errorf("expected the book to be empty after cancel, got %+v", snap.Bids)
	}
}

func TestSequencer_ListenersFanOutInRegistrationOrder(t *testing.T) {
	bk := book.NewBook[string]("TEST")
	seq := New[string](bk)

	var mu sync.Mutex
	var calls []string
	seq.AddListener(func(e *command.Event[string]) {
		mu.Lock()
		calls = append(calls, "first")
		mu.Unlock()
	})
	seq.AddListener(func(e *command.Event[string]) {
		mu.Lock()
		calls = append(calls, "second")
		mu.Unlock()
	})

	handle := seq.Spawn()
	if _, err := seq.Submit(addCmd(1, 10100)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	seq.Shutdown()
	handle.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("expected listeners invoked in registration order, got %v", calls)
	}
}

func TestSequencer_AddListenerAfterSpawnPanics(t *testing.T) {
	bk := book.NewBook[string]("TEST")
	seq := New[string](bk)
	handle := seq.Spawn()
	defer func() {
		seq.Shutdown()
		handle.Wait()
	}()

	defer func() {
		if recover() == nil {
			t.Error("expected AddListener after Spawn to panic")
		}
	}()
	seq.AddListener(func(e *command.Event[string]) {})
}

func TestSequencer_SpawnTwicePanics(t *testing.T) {
	bk := book.NewBook[string]("TEST")
	seq := New[string](bk)
	handle := seq.Spawn()
	defer func() {
		seq.Shutdown()
		handle.Wait()
	}()

	defer func() {
		if recover() == nil {
			t.Error("expected a second Spawn to panic")
		}
	}()
	seq.Spawn()
}

func TestSequencer_SubmitAfterShutdownReturnsError(t *testing.T) {
	bk := book.NewBook[string]("TEST")
	seq := New[string](bk)
	handle := seq.Spawn()
	seq.Shutdown()
	handle.Wait()

	_, err := seq.Submit(addCmd(1, 10100))
	if err == nil {
		t.Fatal("expected Submit after Shutdown to return an error")
	}
	if e, ok := err.(*Error); !ok || e.Kind != ErrorKindShutdown {
		t.Errorf("expected a shutdown Error, got %v", err)
	}
}
