// Package userstore persists user records in SQLite.
package userstore

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
	_ "modernc.org/sqlite"

	"github.com/usersadmin/console/internal/usertable"
)

// ErrNotFound is returned when no user has the requested ID.
var ErrNotFound = errors.New("user not found")

const storeTimeout = 3 * time.Second

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (and migrates) the SQLite database at path. The
// special path ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps an in-memory database alive and serialises writes.
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA foreign_keys=ON;`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			archived INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			role TEXT NOT NULL,
			PRIMARY KEY (user_id, position)
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("user store migration failed: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns every user ordered by name, roles in their stored order.
func (s *Store) List(ctx context.Context) ([]usertable.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, archived FROM users ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	var users []usertable.User
	index := make(map[string]int)
	for rows.Next() {
		var u usertable.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Archived); err != nil {
			rows.Close()
			return nil, err
		}
		u.Roles = []usertable.Role{}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	roleRows, err := s.db.QueryContext(ctx, `SELECT user_id, role FROM user_roles ORDER BY user_id, position`)
	if err != nil {
		return nil, err
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var userID, role string
		if err := roleRows.Scan(&userID, &role); err != nil {
			return nil, err
		}
		if i, ok := index[userID]; ok {
			users[i].Roles = append(users[i].Roles, usertable.Role{Name: role})
		}
	}
	return users, roleRows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (usertable.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	u := usertable.User{Roles: []usertable.Role{}}
	err := s.db.QueryRowContext(ctx, `SELECT id, name, email, archived FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Archived)
	if errors.Is(err, sql.ErrNoRows) {
		return usertable.User{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return usertable.User{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = ? ORDER BY position`, id)
	if err != nil {
		return usertable.User{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return usertable.User{}, err
		}
		u.Roles = append(u.Roles, usertable.Role{Name: role})
	}
	return u, rows.Err()
}

// Save inserts or updates u and replaces its roles. A missing ID is
// generated; the stored record is returned.
func (s *Store) Save(ctx context.Context, u usertable.User) (usertable.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if strings.TrimSpace(u.ID) == "" {
		u.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return usertable.User{}, err
	}
	if err := saveUserTx(ctx, tx, u); err != nil {
		_ = tx.Rollback()
		return usertable.User{}, fmt.Errorf("save user %s: %w", u.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return usertable.User{}, err
	}
	if u.Roles == nil {
		u.Roles = []usertable.Role{}
	}
	return u, nil
}

func saveUserTx(ctx context.Context, tx *sql.Tx, u usertable.User) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO users (id, name, email, archived) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			archived = excluded.archived,
			updated_at = CURRENT_TIMESTAMP`,
		u.ID, u.Name, u.Email, u.Archived)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, u.ID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO user_roles (user_id, position, role) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, r := range u.Roles {
		if _, err := stmt.ExecContext(ctx, u.ID, i, r.Name); err != nil {
			return err
		}
	}
	return nil
}

// SetArchived flips the archived flag of one user.
func (s *Store) SetArchived(ctx context.Context, id string, archived bool) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `UPDATE users SET archived = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, archived, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// Seed stores users when the table is empty and reports how many were
// written.
func (s *Store) Seed(ctx context.Context, users []usertable.User) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, u := range users {
		if _, err := s.Save(ctx, u); err != nil {
			return 0, err
		}
	}
	return len(users), nil
}
