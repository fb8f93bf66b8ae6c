package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool and pgx.Tx the repositories use, so a
// repository runs unchanged inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapPgError translates driver errors into storage sentinels, leaving others untouched.
func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, storage.ErrConflict)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, storage.ErrForeignKey)
		}
	}
	return err
}

// buildUpdateQuery constructs an UPDATE ... SET ... WHERE id = $n RETURNING query.
func buildUpdateQuery(table string, sets []string, args *[]interface{}, id int64, returning string) string {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("UPDATE ")
	queryBuilder.WriteString(table)
	queryBuilder.WriteString(" SET ")
	queryBuilder.WriteString(strings.Join(append(sets, "updated_at = NOW()"), ", "))

	*args = append(*args, id)
	queryBuilder.WriteString(fmt.Sprintf(" WHERE id = $%d", len(*args)))
	queryBuilder.WriteString(" RETURNING ")
	queryBuilder.WriteString(returning)

	return queryBuilder.String()
}
