package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/course-registry/internal/domain/shared"
)

// LineStore keeps each resource as rows of resource_lines.
// WriteLines replaces a resource inside one transaction.
type LineStore struct {
	conn *Connection
}

// NewLineStore creates a store over conn. Run the Migrator first.
func NewLineStore(conn *Connection) *LineStore {
	return &LineStore{conn: conn}
}

// ReadLines returns the lines of resource ordered by line number.
// A resource without rows reads as empty.
func (s *LineStore) ReadLines(ctx context.Context, resource string) ([]string, error) {
	lines, err := Query(ctx, s.conn, pgx.RowTo[string],
		`SELECT line FROM resource_lines WHERE resource = $1 ORDER BY line_no`, resource)
	if err != nil {
		return nil, shared.WrapError("storage", "ReadLines", shared.ErrStorage, "cannot read "+resource, err)
	}
	if lines == nil {
		lines = []string{}
	}
	return lines, nil
}

// WriteLines deletes the old rows of resource and copies in the new ones.
func (s *LineStore) WriteLines(ctx context.Context, resource string, lines []string) error {
	err := s.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM resource_lines WHERE resource = $1`, resource); err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"resource_lines"},
			[]string{"resource", "line_no", "line"},
			pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
				return []any{resource, i, lines[i]}, nil
			}),
		)
		return err
	})
	if err != nil {
		return shared.WrapError("storage", "WriteLines", shared.ErrStorage, "cannot write "+resource, err)
	}
	return nil
}
