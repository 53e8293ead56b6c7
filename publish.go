package bridge

import (
	"sync"

	"github.com/feedmill/mdbridge/book"
)

// Publisher is the handoff boundary to the publish transport.
//
// IMPORTANT: implementations must either process messages synchronously
// before returning or retain the values as handed over; the builder reuses
// only its own internal buffers, never a published message.
type Publisher interface {
	Publish(...*book.Message)
}

// MemoryPublisher stores messages in memory, useful for testing.
type MemoryPublisher struct {
	mu       sync.RWMutex
	Messages []*book.Message
}

// NewMemoryPublisher creates a new MemoryPublisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{
		Messages: make([]*book.Message, 0),
	}
}

// Publish appends messages to the in-memory slice.
func (m *MemoryPublisher) Publish(msgs ...*book.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msgs...)
}

// Count returns the number of messages stored.
func (m *MemoryPublisher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Messages)
}

// Get returns the message at the specified index.
func (m *MemoryPublisher) Get(index int) *book.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Messages[index]
}

// DiscardPublisher discards all messages, useful for benchmarking.
type DiscardPublisher struct {
}

// NewDiscardPublisher creates a new DiscardPublisher.
func NewDiscardPublisher() *DiscardPublisher {
	return &DiscardPublisher{}
}

// Publish does nothing.
func (p *DiscardPublisher) Publish(msgs ...*book.Message) {

}
