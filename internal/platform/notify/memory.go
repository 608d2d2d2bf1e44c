package notify

import (
	"context"
	"sync"
)

// MemoryPublisher records published messages. Err, when set, is returned from every call
// after the message is recorded.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

// NewMemoryPublisher returns an empty recorder.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish records msg.
func (p *MemoryPublisher) Publish(_ context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return p.Err
}

// Messages returns a copy of everything published so far.
func (p *MemoryPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Types lists the event types published so far, in order.
func (p *MemoryPublisher) Types() []string {
	msgs := p.Messages()
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}
