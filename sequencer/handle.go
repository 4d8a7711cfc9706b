package sequencer

// Handle lets a caller wait for a spawned Sequencer's event loop to exit.
// The loop only exits after Shutdown, so a caller that never shuts the
// sequencer down should not expect Wait to return.
type Handle struct {
	done chan struct{}
}

// Wait blocks until the event loop has exited.
func (h *Handle) Wait() {
	<-h.done
}
