package queue

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an unbounded in-process queue. Jobs are lost when the process
// exits.
type Memory struct {
	opts Options

	mu     sync.Mutex
	items  []envelope
	notify chan struct{}
}

func NewMemory(opts Options) *Memory {
	return &Memory{
		opts:   opts.withDefaults(),
		notify: make(chan struct{}, 1),
	}
}

func (m *Memory) Enqueue(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid(payload) {
		return errInvalidPayload
	}
	m.push(envelope{Payload: append(json.RawMessage(nil), payload...)})
	return nil
}

func (m *Memory) push(env envelope) {
	m.mu.Lock()
	m.items = append(m.items, env)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *Memory) pop() (envelope, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return envelope{}, false
	}
	env := m.items[0]
	m.items = m.items[1:]
	return env, true
}

// Len returns the number of jobs waiting for delivery.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Memory) Consume(ctx context.Context, handler Handler) error {
	requeue := func(_ context.Context, env envelope) error {
		m.push(env)
		return nil
	}

	for {
		env, ok := m.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-m.notify:
				continue
			}
		}

		// Wake another consumer for the remaining items.
		if m.Len() > 0 {
			select {
			case m.notify <- struct{}{}:
			default:
			}
		}

		deliver(ctx, env, handler, m.opts, requeue)

		if ctx.Err() != nil {
			return nil
		}
	}
}
