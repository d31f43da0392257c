package history

import (
	"context"
	"sync"
)

const defaultMemoryLimit = 50

// MemoryRecorder keeps the most recent passes in a ring buffer. Used when no
// database DSN is configured.
type MemoryRecorder struct {
	mu      sync.RWMutex
	records []Record
	limit   int
}

// MemoryOption applies a configuration option to the MemoryRecorder.
type MemoryOption func(*MemoryRecorder)

// WithMemoryLimit caps the number of retained records.
func WithMemoryLimit(limit int) MemoryOption {
	return func(m *MemoryRecorder) {
		if limit > 0 {
			m.limit = limit
		}
	}
}

// NewMemoryRecorder creates an in-memory recorder.
func NewMemoryRecorder(opts ...MemoryOption) *MemoryRecorder {
	m := &MemoryRecorder{limit: defaultMemoryLimit}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record appends a pass, evicting the oldest beyond the limit.
func (m *MemoryRecorder) Record(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	if len(m.records) > m.limit {
		m.records = m.records[len(m.records)-m.limit:]
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (m *MemoryRecorder) Recent(_ context.Context, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Record, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

// Close is a no-op for the memory recorder.
func (m *MemoryRecorder) Close() error { return nil }
