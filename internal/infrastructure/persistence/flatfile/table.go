package flatfile

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// Schema describes how one entity type maps to a fixed-arity record.
type Schema[T any] struct {
	// Columns are written as the header line; their count is the record arity.
	Columns []string
	Key     func(T) string
	Encode  func(T) []string
	Decode  func(fields []string) (T, error)
	Clone   func(T) T
}

// PersistObserver is notified after every write attempt.
type PersistObserver interface {
	ObservePersist(resource string, records int, took time.Duration, err error)
}

type tableOptions struct {
	log      *logger.Logger
	observer PersistObserver
}

// Option configures a Table.
type Option func(*tableOptions)

// WithLogger sets the logger used for load and persist events.
func WithLogger(log *logger.Logger) Option {
	return func(o *tableOptions) { o.log = log }
}

// WithObserver sets the persist observer.
func WithObserver(obs PersistObserver) Option {
	return func(o *tableOptions) { o.observer = obs }
}

// Table is an insertion-ordered, keyed in-memory collection that rewrites
// its whole resource after each mutation. A mutation reaches memory only
// after the write succeeded.
type Table[T any] struct {
	mu       sync.RWMutex
	store    LineStore
	resource string
	schema   Schema[T]
	keys     []string
	rows     map[string]T
	log      *logger.Logger
	observer PersistObserver
}

// OpenTable loads resource from store. Any malformed record fails the load.
func OpenTable[T any](ctx context.Context, store LineStore, resource string, schema Schema[T], opts ...Option) (*Table[T], error) {
	o := tableOptions{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table[T]{
		store:    store,
		resource: resource,
		schema:   schema,
		rows:     make(map[string]T),
		log:      o.log.With(logger.Resource(resource)),
		observer: o.observer,
	}

	if err := t.load(ctx); err != nil {
		return nil, err
	}
	t.log.Debug("resource loaded", logger.Records(len(t.keys)))
	return t, nil
}

func (t *Table[T]) load(ctx context.Context) error {
	lines, err := t.store.ReadLines(ctx, t.resource)
	if err != nil {
		return err
	}

	for i, line := range lines {
		if i == 0 && strings.HasPrefix(line, HeaderPrefix) {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := Decode(line)
		if len(fields) != len(t.schema.Columns) {
			return t.corrupt(i+1, fmt.Errorf("expected %d fields, got %d", len(t.schema.Columns), len(fields)))
		}

		row, err := t.schema.Decode(fields)
		if err != nil {
			return t.corrupt(i+1, err)
		}

		key := t.schema.Key(row)
		if _, exists := t.rows[key]; !exists {
			t.keys = append(t.keys, key)
		}
		t.rows[key] = row
	}
	return nil
}

func (t *Table[T]) corrupt(lineNo int, err error) error {
	return shared.WrapError("storage", "Load", shared.ErrCorruptRecord,
		fmt.Sprintf("malformed record in %s at line %d", t.resource, lineNo), err)
}

// All returns copies of every row in insertion order.
func (t *Table[T]) All() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.schema.Clone(t.rows[k]))
	}
	return out
}

// Filter returns copies of the rows matching keep, in insertion order.
func (t *Table[T]) Filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []T
	for _, k := range t.keys {
		if row := t.rows[k]; keep(row) {
			out = append(out, t.schema.Clone(row))
		}
	}
	return out
}

// Get returns a copy of the row stored under key.
func (t *Table[T]) Get(key string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[key]
	if !ok {
		var zero T
		return zero, false
	}
	return t.schema.Clone(row), true
}

// Put inserts or replaces row by key and persists the collection.
// A replaced row keeps its original position.
func (t *Table[T]) Put(ctx context.Context, row T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored := t.schema.Clone(row)
	key := t.schema.Key(stored)

	keys := t.keys
	if _, exists := t.rows[key]; !exists {
		keys = append(slices.Clip(t.keys), key)
	}
	rows := maps.Clone(t.rows)
	rows[key] = stored

	if err := t.persist(ctx, keys, rows); err != nil {
		var zero T
		return zero, err
	}

	t.keys, t.rows = keys, rows
	return t.schema.Clone(stored), nil
}

// Remove deletes the row stored under key. The resource is rewritten only
// when a row was actually removed.
func (t *Table[T]) Remove(ctx context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := slices.Index(t.keys, key)
	if idx < 0 {
		return false, nil
	}

	keys := slices.Delete(slices.Clone(t.keys), idx, idx+1)
	rows := maps.Clone(t.rows)
	delete(rows, key)

	if err := t.persist(ctx, keys, rows); err != nil {
		return false, err
	}

	t.keys, t.rows = keys, rows
	return true, nil
}

func (t *Table[T]) persist(ctx context.Context, keys []string, rows map[string]T) error {
	lines := make([]string, 0, len(keys)+1)
	lines = append(lines, strings.Join(t.schema.Columns, Separator))
	for _, k := range keys {
		lines = append(lines, Encode(t.schema.Encode(rows[k])))
	}

	start := time.Now()
	err := t.store.WriteLines(ctx, t.resource, lines)
	took := time.Since(start)

	if t.observer != nil {
		t.observer.ObservePersist(t.resource, len(keys), took, err)
	}
	if err != nil {
		t.log.Error("persist failed", logger.Records(len(keys)), logger.Err(err))
		if !shared.IsStorage(err) {
			err = shared.WrapError("storage", "WriteLines", shared.ErrStorage, "cannot write "+t.resource, err)
		}
		return err
	}

	t.log.Debug("resource persisted", logger.Records(len(keys)), logger.Latency(took))
	return nil
}
