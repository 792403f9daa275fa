package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Record is one failure-sink entry.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Detail    string    `json:"detail"`
}

// Sink is an append-only destination for failure records. Implementations
// must tolerate concurrent appends; they are free to drop records under
// pressure but must never block the caller indefinitely.
type Sink interface {
	Append(Record) error
}

// FileSink writes records as JSON lines through an async pipeline so the
// crypto path never blocks on the log destination.
type FileSink struct {
	records chan Record
	out     io.Writer
	done    chan struct{}
}

// NewFileSink creates a sink writing to out with the given channel buffer.
func NewFileSink(out io.Writer, bufferSize int) *FileSink {
	s := &FileSink{
		records: make(chan Record, bufferSize),
		out:     out,
		done:    make(chan struct{}),
	}
	go s.processLoop()
	return s
}

// Append enqueues a record. If the buffer is full the record is dropped
// and an error returned; the caller treats that as best-effort loss.
func (s *FileSink) Append(rec Record) error {
	select {
	case s.records <- rec:
		return nil
	default:
		return fmt.Errorf("failure sink buffer full, record dropped")
	}
}

// Close stops the processing loop and waits for queued records to drain.
func (s *FileSink) Close() {
	close(s.records)
	<-s.done
}

func (s *FileSink) processLoop() {
	defer close(s.done)

	for rec := range s.records {
		data, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		fmt.Fprintf(s.out, "%s\n", data)
	}
}

// MemorySink retains records in memory. Test support.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// Append stores the record.
func (s *MemorySink) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a snapshot of everything appended so far.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}
