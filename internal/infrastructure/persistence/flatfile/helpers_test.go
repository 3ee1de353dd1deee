package flatfile

import (
	"context"
	"errors"
	"sync"
	"time"
)

// memStore is an in-memory LineStore with an injectable write failure.
type memStore struct {
	mu       sync.Mutex
	data     map[string][]string
	writes   int
	failNext error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]string)}
}

func (m *memStore) ReadLines(_ context.Context, resource string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.data[resource]...), nil
}

func (m *memStore) WriteLines(_ context.Context, resource string, lines []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.writes++
	m.data[resource] = append([]string{}, lines...)
	return nil
}

var errDiskFull = errors.New("disk full")

type recordingObserver struct {
	calls []error
}

func (o *recordingObserver) ObservePersist(_ string, _ int, _ time.Duration, err error) {
	o.calls = append(o.calls, err)
}
