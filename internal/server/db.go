package server

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"taskwiz/internal/errors"
	"taskwiz/internal/service"
	"taskwiz/internal/tasks"
)

//go:embed schema.sql
var schema string

var (
	// ErrUserExists is returned when a username is already taken.
	ErrUserExists = errors.New("username already exists")
	// ErrTaskNotFound is returned when a task does not exist or belongs
	// to another user.
	ErrTaskNotFound = errors.New("task not found")
)

// User is a stored account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
}

// DB is the backend's SQLite store.
type DB struct {
	*sql.DB
	now func() time.Time
}

// Open opens a SQLite database at the given path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps one writer and, for :memory:, one database.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &DB{DB: sqlDB, now: time.Now}, nil
}

// CreateUser stores a new account. The username must already be normalized.
func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, db.now().UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// UserByName returns the account with the given username.
func (db *DB) UserByName(ctx context.Context, username string) (User, bool, error) {
	var u User
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("failed to get user: %w", err)
	}
	return u, true, nil
}

// CreateTask inserts a task for userID in OPEN status.
func (db *DB) CreateTask(ctx context.Context, userID string, in service.NewTask) (service.Task, error) {
	t := service.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      service.StatusOpen,
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, userID, t.Title, t.Description, string(t.Status), db.now().UnixNano())
	if err != nil {
		return service.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// GetTask returns task id if it belongs to userID.
func (db *DB) GetTask(ctx context.Context, userID, id string) (service.Task, error) {
	var t service.Task
	var status string
	err := db.QueryRowContext(ctx,
		`SELECT id, title, description, status FROM tasks WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&t.ID, &t.Title, &t.Description, &status)
	if err == sql.ErrNoRows {
		return service.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return service.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	t.Status = service.Status(status)
	return t, nil
}

// ListTasks returns the tasks of userID matching f, newest first.
func (db *DB) ListTasks(ctx context.Context, userID string, f service.Filter) ([]service.Task, error) {
	query := `SELECT id, title, description, status FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, string(f.Status))
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	list := []service.Task{}
	for rows.Next() {
		var t service.Task
		var status string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Status = service.Status(status)
		// sqlite's lower() folds ASCII only; search here so the result
		// agrees with the client's filter.
		if tasks.Matches(t, service.Filter{Search: f.Search}) {
			list = append(list, t)
		}
	}
	return list, rows.Err()
}

// UpdateTaskStatus sets the status of task id owned by userID.
func (db *DB) UpdateTaskStatus(ctx context.Context, userID, id string, status service.Status) (service.Task, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE tasks SET status = ? WHERE id = ? AND user_id = ?`, string(status), id, userID)
	if err != nil {
		return service.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return service.Task{}, ErrTaskNotFound
	}
	return db.GetTask(ctx, userID, id)
}

// DeleteTask removes task id owned by userID.
func (db *DB) DeleteTask(ctx context.Context, userID, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
