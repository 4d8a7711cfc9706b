package journal

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/Layer-V/orderbook/command"
)

const (
	// defaultFlushInterval is the maximum time between automatic flushes.
	defaultFlushInterval = 10 * time.Millisecond
	// defaultBufSize is the initial write-buffer size for the journal.
	defaultBufSize = 64 * 1024 // 64 KiB
)

// FileJournal is a durable, file-backed Journal. Events are gob-encoded,
// length-prefixed, and CRC32-checksummed so that a crash mid-write leaves a
// detectable, truncatable tail rather than silently corrupt data.
//
// Writes are buffered and flushed either when the buffer fills or every
// defaultFlushInterval, whichever comes first, to keep fsync calls off the
// hot path. Reads are served from an in-memory mirror built at open time
// and kept current on Append, so ReadFrom/ReadRange never touch disk.
type FileJournal[T any] struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	events []command.Event[T]

	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

var _ Journal[struct{}] = (*FileJournal[struct{}])(nil)

// OpenFileJournal opens (or creates) the journal file at path, replays any
// existing records into memory, and starts the background flush goroutine.
func OpenFileJournal[T any](path string) (*FileJournal[T], error) {
	existing, err := readFileJournal[T](path)
	if err != nil {
		return nil, fmt.Errorf("journal: reading %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	j := &FileJournal[T]{
		file:   f,
		writer: bufio.NewWriterSize(f, defaultBufSize),
		events: existing,
		ticker: time.NewTicker(defaultFlushInterval),
		done:   make(chan struct{}),
	}
	j.wg.Add(1)
	go j.flushLoop()
	return j, nil
}

// Append writes event to the journal buffer. Safe for concurrent use,
// though in the sequencer-listener configuration only one goroutine ever
// calls it.
func (j *FileJournal[T]) Append(event command.Event[T]) error {
	record, err := encodeRecord(event)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.writer.Write(record); err != nil {
		return err
	}
	j.events = append(j.events, event)
	return nil
}

// Flush forces all buffered data to disk.
func (j *FileJournal[T]) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flush()
}

// flush must be called with j.mu held.
func (j *FileJournal[T]) flush() error {
	if err := j.writer.Flush(); err != nil {
		return err
	}
	return j.file.Sync()
}

// Close flushes remaining data, stops the background goroutine, and closes
// the underlying file.
func (j *FileJournal[T]) Close() error {
	j.ticker.Stop()
	close(j.done)
	j.wg.Wait()

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.flush(); err != nil {
		_ = j.file.Close()
		return err
	}
	return j.file.Close()
}

func (j *FileJournal[T]) flushLoop() {
	defer j.wg.Done()
	for {
		select {
		case <-j.ticker.C:
			j.mu.Lock()
			_ = j.flush()
			j.mu.Unlock()
		case <-j.done:
			return
		}
	}
}

// Len returns the number of stored events.
func (j *FileJournal[T]) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}

// IsEmpty reports whether the journal holds no events.
func (j *FileJournal[T]) IsEmpty() bool {
	return j.Len() == 0
}

// LastSequence returns the highest stored sequence number.
func (j *FileJournal[T]) LastSequence() (uint64, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.events) == 0 {
		return 0, false
	}
	return j.events[len(j.events)-1].SequenceNum, true
}

// ReadFrom returns every event with SequenceNum >= from.
func (j *FileJournal[T]) ReadFrom(from uint64) ([]command.Event[T], error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	idx := sort.Search(len(j.events), func(i int) bool {
		return j.events[i].SequenceNum >= from
	})
	out := make([]command.Event[T], len(j.events)-idx)
	copy(out, j.events[idx:])
	return out, nil
}

// ReadRange returns every event with SequenceNum in [from, to].
func (j *FileJournal[T]) ReadRange(from, to uint64) ([]command.Event[T], error) {
	j.mu.Lock()
	defer j.mu.Unlock()
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

// ─── wire format ────────────────────────────────────────────────────────
//
//	4 bytes – payload length (big-endian uint32)
//	4 bytes – CRC32 (IEEE) of payload (big-endian uint32)
//	N bytes – gob-encoded command.Event[T]

func encodeRecord[T any](event command.Event[T]) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(event); err != nil {
		return nil, fmt.Errorf("journal: encoding event: %w", err)
	}
	payload := buf.Bytes()

	record := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(record[0:4], uint32(len(payload)))
	binary.BigEndian.PutUint32(record[4:8], crc32.ChecksumIEEE(payload))
	copy(record[8:], payload)
	return record, nil
}

func decodeRecord[T any](r io.Reader) (command.Event[T], error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return command.Event[T]{}, err
	}
	payloadLen := binary.BigEndian.Uint32(header[0:4])
	wantCRC := binary.BigEndian.Uint32(header[4:8])

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return command.Event[T]{}, fmt.Errorf("journal: reading record payload: %w", err)
	}
	if got := crc32.ChecksumIEEE(payload); got != wantCRC {
		return command.Event[T]{}, fmt.Errorf("journal: checksum mismatch (want %x, got %x)", wantCRC, got)
	}

	var event command.Event[T]
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&event); err != nil {
		return command.Event[T]{}, fmt.Errorf("journal: decoding event: %w", err)
	}
	return event, nil
}

func readFileJournal[T any](path string) ([]command.Event[T], error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var events []command.Event[T]
	r := bufio.NewReader(f)
	for {
		e, err := decodeRecord[T](r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break // truncated tail is tolerated (crash during write)
			}
			return events, err
		}
		events = append(events, e)
	}
	return events, nil
}
