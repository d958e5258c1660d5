// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wchung1209/climbing-log/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// createdAtLayout is fixed-width so that text ordering matches time ordering.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when a climb id does not exist.
var ErrNotFound = errors.New("climb not found")

// Store wraps SQLite access for climb records.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS climbs (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			grade TEXT NOT NULL,
			grade_system TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			is_sent INTEGER NOT NULL,
			notes TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS climb_tags (
			climb_id TEXT NOT NULL REFERENCES climbs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY (climb_id, tag)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_climbs_date_created ON climbs(date DESC, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_climb_tags_tag ON climb_tags(tag);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertClimb validates and stores a climb with its tags, returning the stored copy.
// An empty ID is replaced with a fresh UUID and a zero CreatedAt with the current time.
func (s *Store) InsertClimb(ctx context.Context, climb model.Climb) (model.Climb, error) {
	if err := climb.Validate(); err != nil {
		return model.Climb{}, err
	}
	if climb.ID == "" {
		climb.ID = uuid.NewString()
	}
	if climb.CreatedAt.IsZero() {
		climb.CreatedAt = s.now()
	}
	climb.CreatedAt = climb.CreatedAt.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Climb{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO climbs (id, date, grade, grade_system, attempts, is_sent, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		climb.ID,
		climb.Date,
		climb.Grade,
		climb.GradeSystem,
		climb.Attempts,
		climb.IsSent,
		climb.Notes,
		climb.CreatedAt.Format(createdAtLayout),
	)
	if err != nil {
		return model.Climb{}, fmt.Errorf("failed to insert climb: %w", err)
	}

	if len(climb.Tags) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx, `INSERT INTO climb_tags (climb_id, position, tag) VALUES (?, ?, ?)`)
		if err != nil {
			return model.Climb{}, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, tag := range climb.Tags {
			if _, err = stmt.ExecContext(ctx, climb.ID, i, tag); err != nil {
				return model.Climb{}, fmt.Errorf("failed to insert climb tag: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return model.Climb{}, err
	}
	return climb, nil
}

// ListClimbs returns every climb, newest date first and, within a date, most
// recently logged first. Dates are returned exactly as stored.
func (s *Store) ListClimbs(ctx context.Context) ([]model.Climb, error) {
	return s.queryClimbs(ctx, "", nil)
}

// GetClimb returns one climb by id.
func (s *Store) GetClimb(ctx context.Context, id string) (model.Climb, error) {
	climbs, err := s.queryClimbs(ctx, "WHERE id = ?", []any{id})
	if err != nil {
		return model.Climb{}, err
	}
	if len(climbs) == 0 {
		return model.Climb{}, ErrNotFound
	}
	return climbs[0], nil
}

// DeleteClimb removes a climb and its tags.
func (s *Store) DeleteClimb(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM climbs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete climb: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	// Tags cascade when foreign keys are enforced; clear them explicitly for
	// connections opened without the pragma.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM climb_tags WHERE climb_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete climb tags: %w", err)
	}
	return nil
}

func (s *Store) queryClimbs(ctx context.Context, where string, args []any) ([]model.Climb, error) {
	query := fmt.Sprintf(`SELECT id, date, grade, grade_system, attempts, is_sent, notes, created_at
		FROM climbs
		%s
		ORDER BY date DESC, created_at DESC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var climbs []model.Climb
	for rows.Next() {
		var c model.Climb
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Date, &c.Grade, &c.GradeSystem, &c.Attempts, &c.IsSent, &c.Notes, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(createdAtLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for climb %s: %w", c.ID, err)
		}
		c.CreatedAt = parsed
		climbs = append(climbs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, climbs); err != nil {
		return nil, err
	}
	return climbs, nil
}

func (s *Store) attachTags(ctx context.Context, climbs []model.Climb) error {
	if len(climbs) == 0 {
		return nil
	}
	placeholders := make([]string, len(climbs))
	args := make([]any, len(climbs))
	index := make(map[string]int, len(climbs))
	for i, c := range climbs {
		placeholders[i] = "?"
		args[i] = c.ID
		index[c.ID] = i
	}
	query := fmt.Sprintf(`SELECT climb_id, tag FROM climb_tags
		WHERE climb_id IN (%s)
		ORDER BY climb_id, position`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var climbID, tag string
		if err := rows.Scan(&climbID, &tag); err != nil {
			return err
		}
		if i, ok := index[climbID]; ok {
			climbs[i].Tags = append(climbs[i].Tags, tag)
		}
	}
	return rows.Err()
}
