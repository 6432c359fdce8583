package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"backend-template/internal/domain"
)

var baseColumns = []string{"id", "created_at", "updated_at", "is_active"}

// table implements the active-record contract for any entity whose business
// columns are listed in columns. Field names are resolved through db tags.
type table[T domain.Entity] struct {
	db      *DB
	name    string
	entity  string
	columns []string
	newFn   func() T
	now     func() time.Time
}

func newTable[T domain.Entity](db *DB, name, entity string, columns []string, newFn func() T) *table[T] {
	return &table[T]{
		db:      db,
		name:    name,
		entity:  entity,
		columns: columns,
		newFn:   newFn,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (t *table[T]) selectColumns() string {
	return strings.Join(append(append([]string{}, baseColumns...), t.columns...), ", ")
}

func (t *table[T]) FindByID(ctx context.Context, id string) (T, error) {
	return t.get(ctx, "id = ?", id)
}

func (t *table[T]) FindActiveByID(ctx context.Context, id string) (T, error) {
	return t.get(ctx, "id = ? AND is_active = ?", id, true)
}

func (t *table[T]) ListActive(ctx context.Context, page domain.PageRequest) (domain.Page[T], error) {
	return t.list(ctx, "is_active = ?", []any{true}, page)
}

func (t *table[T]) Save(ctx context.Context, entity T) (T, error) {
	meta := entity.Meta()
	now := t.now()

	if meta.IsNew() {
		meta.ID = uuid.NewString()
		meta.CreatedAt = now
		meta.UpdatedAt = now
		meta.IsActive = true
		if err := t.insert(ctx, entity); err != nil {
			meta.ID = ""
			return entity, err
		}
		return entity, nil
	}

	previous := meta.UpdatedAt
	meta.UpdatedAt = now
	if err := t.update(ctx, entity); err != nil {
		meta.UpdatedAt = previous
		return entity, err
	}
	return entity, nil
}

func (t *table[T]) insert(ctx context.Context, entity T) error {
	cols := append(append([]string{}, baseColumns...), t.columns...)
	binds := make([]string, len(cols))
	for i, c := range cols {
		binds[i] = ":" + c
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		t.name, strings.Join(cols, ", "), strings.Join(binds, ", "))
	if _, err := t.db.NamedExecContext(ctx, query, entity); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s: %w", t.entity, domain.ErrDuplicateEntity)
		}
		return fmt.Errorf("insert %s: %w", t.entity, err)
	}
	return nil
}

func (t *table[T]) update(ctx context.Context, entity T) error {
	cols := append([]string{"updated_at", "is_active"}, t.columns...)
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = :" + c
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = :id`, t.name, strings.Join(sets, ", "))
	res, err := t.db.NamedExecContext(ctx, query, entity)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update %s: %w", t.entity, domain.ErrDuplicateEntity)
		}
		return fmt.Errorf("update %s: %w", t.entity, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", t.entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", t.entity, entity.Meta().ID, domain.ErrNotFound)
	}
	return nil
}

func (t *table[T]) get(ctx context.Context, where string, args ...any) (T, error) {
	query := t.db.Rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, t.selectColumns(), t.name, where))

	entity := t.newFn()
	if err := t.db.GetContext(ctx, entity, query, args...); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("%s: %w", t.entity, domain.ErrNotFound)
		}
		return zero, fmt.Errorf("select %s: %w", t.entity, err)
	}
	return entity, nil
}

// list pages through rows matching where, newest first.
func (t *table[T]) list(ctx context.Context, where string, args []any, page domain.PageRequest) (domain.Page[T], error) {
	page = page.Normalize()

	var total int64
	countQuery := t.db.Rebind(fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE %s`, t.name, where))
	if err := t.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return domain.Page[T]{}, fmt.Errorf("count %s: %w", t.entity, err)
	}

	items := make([]T, 0, page.Size)
	if total > int64(page.Offset()) {
		query := t.db.Rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
			t.selectColumns(), t.name, where))
		pageArgs := append(append([]any{}, args...), page.Size, page.Offset())
		if err := t.db.SelectContext(ctx, &items, query, pageArgs...); err != nil {
			return domain.Page[T]{}, fmt.Errorf("list %s: %w", t.entity, err)
		}
	}

	return domain.NewPage(items, page, total), nil
}

func (t *table[T]) exists(ctx context.Context, column string, value any) (bool, error) {
	var count int64
	query := t.db.Rebind(fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE %s = ?`, t.name, column))
	if err := t.db.GetContext(ctx, &count, query, value); err != nil {
		return false, fmt.Errorf("check %s %s: %w", t.entity, column, err)
	}
	return count > 0, nil
}

// likePattern builds a case-insensitive substring pattern, escaping the LIKE
// wildcards present in the input. Pair it with `ESCAPE '\'`.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
