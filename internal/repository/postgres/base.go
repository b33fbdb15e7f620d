package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// table describes how one entity is selected and filtered.
type table struct {
	name    string
	alias   string
	columns string
	filters filter.Columns
}

func (t table) from() string {
	return t.name + " " + t.alias
}

// selectQuery renders the row query for q. Distinct specs that join a to-many
// relation select through an id subquery so each row appears once.
func (t table) selectQuery(q *filter.SQL) string {
	if q.Distinct && len(q.Joins) > 0 {
		return fmt.Sprintf("SELECT %s FROM %s WHERE %s.id IN (SELECT %s.id FROM %s%s)",
			t.columns, t.from(), t.alias, t.alias, t.from(), q.Clause())
	}
	return fmt.Sprintf("SELECT %s FROM %s%s", t.columns, t.from(), q.Clause())
}

func (r *BaseRepository) find(ctx context.Context, dest any, t table, spec filter.Spec, page filter.Page) error {
	q, err := filter.Compile(spec, t.filters, 1)
	if err != nil {
		return err
	}
	order, err := filter.OrderBy(page.Sort, t.filters, t.alias+".id")
	if err != nil {
		return err
	}
	query := t.selectQuery(q) + order + filter.Limit(page)
	return r.db.SelectContext(ctx, dest, query, q.Args...)
}

func (r *BaseRepository) count(ctx context.Context, t table, spec filter.Spec) (int64, error) {
	q, err := filter.Compile(spec, t.filters, 1)
	if err != nil {
		return 0, err
	}
	expr := "COUNT(*)"
	if q.Distinct && len(q.Joins) > 0 {
		expr = fmt.Sprintf("COUNT(DISTINCT %s.id)", t.alias)
	}
	var n int64
	query := fmt.Sprintf("SELECT %s FROM %s%s", expr, t.from(), q.Clause())
	if err := r.db.GetContext(ctx, &n, query, q.Args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *BaseRepository) getByID(ctx context.Context, dest any, t table, id int64) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s.id = $1", t.columns, t.from(), t.alias)
	if err := r.db.GetContext(ctx, dest, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *BaseRepository) deleteByID(ctx context.Context, t table, id int64) error {
	result, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.name), id)
	if err != nil {
		return err
	}
	return expectRows(result)
}

func expectRows(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
