package flatfile

import (
	"context"
	"errors"

	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/circuitbreaker"
)

// GuardedStore puts a circuit breaker in front of a remote LineStore. While
// the circuit is open every call fails at once with a storage error.
type GuardedStore struct {
	next    LineStore
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedStore wraps next. A cancelled or expired context does not count
// as a backend failure.
func NewGuardedStore(next LineStore, name string, opts ...circuitbreaker.Option) *GuardedStore {
	opts = append([]circuitbreaker.Option{
		circuitbreaker.WithIsFailure(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
	}, opts...)
	return &GuardedStore{next: next, breaker: circuitbreaker.New(name, opts...)}
}

// ReadLines implements LineStore.
func (s *GuardedStore) ReadLines(ctx context.Context, resource string) ([]string, error) {
	var lines []string
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		lines, err = s.next.ReadLines(ctx, resource)
		return err
	})
	return lines, s.wrap("ReadLines", resource, err)
}

// WriteLines implements LineStore.
func (s *GuardedStore) WriteLines(ctx context.Context, resource string, lines []string) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.next.WriteLines(ctx, resource, lines)
	})
	return s.wrap("WriteLines", resource, err)
}

// State reports the breaker state.
func (s *GuardedStore) State() circuitbreaker.State {
	return s.breaker.State()
}

func (s *GuardedStore) wrap(op, resource string, err error) error {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return shared.WrapError("storage", op, shared.ErrStorage, "storage unavailable for "+resource, err)
	}
	return err
}
