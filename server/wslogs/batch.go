package wslogs

import (
	"sync"
	"time"
)

// Sink receives finished batches
type Sink interface {
	SendBatch(batch *Batch)
}

// Batcher collects the log lines of one client command so they reach the
// client together once the command finishes
type Batcher struct {
	messages  []Message
	commandID string
	sink      Sink
	mu        sync.Mutex
}

// NewBatcher creates a batcher for one command
func NewBatcher(commandID string, sink Sink) *Batcher {
	return &Batcher{
		messages:  make([]Message, 0, 16),
		commandID: commandID,
		sink:      sink,
	}
}

// Append adds a log message to the batch
func (b *Batcher) Append(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

// Flush hands the collected messages to the sink and clears the buffer
func (b *Batcher) Flush() {
	b.mu.Lock()
	if len(b.messages) == 0 {
		b.mu.Unlock()
		return
	}
	batch := &Batch{
		Messages:  b.messages,
		CommandID: b.commandID,
		Timestamp: time.Now(),
	}
	b.messages = make([]Message, 0, 16)
	b.mu.Unlock()

	b.sink.SendBatch(batch)
}

// Count returns the number of messages currently buffered
func (b *Batcher) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}
