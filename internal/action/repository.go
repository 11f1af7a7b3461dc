package action

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/mattn/go-sqlite3"
)

// Repository defines the interface for action persistence.
// The CLI and the Runner depend on this, so tests can substitute fakes.
type Repository interface {
	// Store setup
	Bootstrap(ctx context.Context) error

	// Actions
	Add(ctx context.Context, a Action) error
	Delete(ctx context.Context, scope string, level int) error
	Select(ctx context.Context, observed int) ([]Entry, error)
	All(ctx context.Context) iter.Seq2[Entry, error]

	// Scope namespace
	Scopes(ctx context.Context) ([]Scope, error)
	ScopeID(ctx context.Context, name string) (int64, error)
	DeleteScope(ctx context.Context, name string) error
	RenameScope(ctx context.Context, from, to string) error
}

// entryColumns is the SELECT column list for entry queries over actions a and scopes s.
const entryColumns = `a.scope_id, s.name, a.level, a.delay, a.command`

// SQLiteRepository implements Repository using SQLite.
//
// It expects the schema from the migrations package and a connection with
// foreign keys switched on (database.Open does both).
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Bootstrap makes sure the Default scope row exists.
// It is safe to call on every start.
func (r *SQLiteRepository) Bootstrap(ctx context.Context) error {
	if err := ensureDefaultScope(ctx, r.db); err != nil {
		return fmt.Errorf("bootstrapping default scope: %w", err)
	}
	return nil
}

// Add stores an action, creating its scope on first use.
//
// The scope insert and the action insert share one transaction. A duplicate
// (level, scope) returns an error wrapping ErrActionExists.
func (r *SQLiteRepository) Add(ctx context.Context, a Action) error {
	if err := ValidateAction(a); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO scopes (name) VALUES (?)`, a.Scope); err != nil {
		return fmt.Errorf("ensuring scope %q: %w", a.Scope, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO actions (level, scope_id, delay, command)
		VALUES (?, (SELECT id FROM scopes WHERE name = ?), ?, ?)`,
		a.Level, a.Scope, a.Delay, a.Command)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: level %d in scope %q", ErrActionExists, a.Level, a.Scope)
		}
		return fmt.Errorf("inserting action: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing action: %w", err)
	}
	return nil
}

// Delete removes the action at level in scope. A missing action or scope is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, scope string, level int) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM actions
		WHERE level = ? AND scope_id = (SELECT id FROM scopes WHERE name = ?)`,
		level, scope)
	if err != nil {
		return fmt.Errorf("deleting action %d in scope %q: %w", level, scope, err)
	}
	return nil
}

// DeleteScope removes a scope and, through the cascade, all of its actions.
// A missing scope is not an error.
//
// Deleting the Default scope empties it: the row is put back in the same
// transaction so the store never lacks it.
func (r *SQLiteRepository) DeleteScope(ctx context.Context, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM scopes WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting scope %q: %w", name, err)
	}
	if err := ensureDefaultScope(ctx, tx); err != nil {
		return fmt.Errorf("restoring default scope: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing scope delete: %w", err)
	}
	return nil
}

// Select returns, for every scope, the action with the highest level not
// above observed. Scopes without such an action are absent from the result.
// Entries are ordered by scope id.
func (r *SQLiteRepository) Select(ctx context.Context, observed int) ([]Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM actions a
		INNER JOIN (
			SELECT scope_id, MAX(level) AS max_level
			FROM actions
			WHERE level <= ?
			GROUP BY scope_id
		) m ON a.scope_id = m.scope_id AND a.level = m.max_level
		INNER JOIN scopes s ON s.id = a.scope_id
		ORDER BY a.scope_id`

	var entries []Entry
	for e, err := range r.query(ctx, query, observed) {
		if err != nil {
			return nil, fmt.Errorf("selecting actions for level %d: %w", observed, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// All returns every stored action ordered by scope id then level.
//
// The sequence is lazy: rows are read while the caller ranges over it, and
// each range re-runs the query. Iteration stops at the first error, which is
// yielded with a zero Entry.
func (r *SQLiteRepository) All(ctx context.Context) iter.Seq2[Entry, error] {
	query := `
		SELECT ` + entryColumns + `
		FROM actions a
		INNER JOIN scopes s ON s.id = a.scope_id
		ORDER BY a.scope_id, a.level`
	return r.query(ctx, query)
}

// Scopes returns every scope ordered by id, the Default scope first.
func (r *SQLiteRepository) Scopes(ctx context.Context) ([]Scope, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM scopes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying scopes: %w", err)
	}
	defer rows.Close()

	var scopes []Scope
	for rows.Next() {
		var s Scope
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scanning scope row: %w", err)
		}
		scopes = append(scopes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scopes: %w", err)
	}
	return scopes, nil
}

// ScopeID resolves a scope name to its id.
func (r *SQLiteRepository) ScopeID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM scopes WHERE name = ?`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %q", ErrScopeNotFound, name)
		}
		return 0, fmt.Errorf("querying scope %q: %w", name, err)
	}
	return id, nil
}

// RenameScope changes a scope's name. Actions follow because they reference the id.
func (r *SQLiteRepository) RenameScope(ctx context.Context, from, to string) error {
	if err := ValidateScopeName(to); err != nil {
		return err
	}

	id, err := r.ScopeID(ctx, from)
	if err != nil {
		return err
	}
	if id == DefaultScopeID {
		return ErrDefaultScope
	}

	_, err = r.db.ExecContext(ctx, `UPDATE scopes SET name = ? WHERE id = ?`, to, id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %q", ErrScopeExists, to)
		}
		return fmt.Errorf("renaming scope %q: %w", from, err)
	}
	return nil
}

// query runs an entry query lazily.
func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(Entry{}, fmt.Errorf("querying actions: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var e Entry
			if err := rows.Scan(&e.ScopeID, &e.Scope, &e.Level, &e.Delay, &e.Command); err != nil {
				yield(Entry{}, fmt.Errorf("scanning action row: %w", err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Entry{}, fmt.Errorf("iterating actions: %w", err))
		}
	}
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func ensureDefaultScope(ctx context.Context, db execer) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO scopes (id, name) VALUES (?, ?)`,
		DefaultScopeID, DefaultScopeName)
	return err
}

// isUniqueConstraintError reports whether err is a SQLite primary key or
// unique constraint violation.
func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

var _ Repository = (*SQLiteRepository)(nil)
