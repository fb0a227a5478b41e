package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/Vishalsongara77/Task-App/domain"
)

// Driver names accepted by OpenSQL.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var schemas = map[string]string{
	DriverSQLite: `CREATE TABLE IF NOT EXISTS tasks (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    details TEXT NOT NULL,
    done BOOLEAN NOT NULL DEFAULT 0
)`,
	DriverMySQL: `CREATE TABLE IF NOT EXISTS tasks (
    seq BIGINT PRIMARY KEY AUTO_INCREMENT,
    id VARCHAR(36) NOT NULL UNIQUE,
    title TEXT NOT NULL,
    details TEXT NOT NULL,
    done BOOLEAN NOT NULL DEFAULT FALSE
)`,
}

var _ backend = (*SQL)(nil)

// SQL persists tasks in a relational database through database/sql.
type SQL struct {
	db *sql.DB
}

// OpenSQL connects with the given driver and creates the tasks table when missing.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// single writer
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate tasks table: %w", err)
	}
	return &SQL{db: db}, nil
}

func (s *SQL) Close() error { return s.db.Close() }

// Ping verifies the database is reachable.
func (s *SQL) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQL) CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}
	task := domain.NewTask(in)
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks (id, title, details, done) VALUES (?, ?, ?, ?)`,
		task.ID, task.Title, task.Details, task.Done)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (s *SQL) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, details, done FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	out := []domain.Task{}
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Details, &t.Done); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQL) UpdateTask(ctx context.Context, id string, in domain.TaskInput) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, details = ?, done = ? WHERE id = ?`,
		in.Title, in.Details, in.Done, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Task{}, err
	}
	if n == 0 {
		// MySQL reports changed rows, not matched rows, so an unchanged
		// update also lands here.
		exists, err := s.exists(ctx, id)
		if err != nil {
			return domain.Task{}, err
		}
		if !exists {
			return domain.Task{}, &domain.NotFoundError{ID: id}
		}
	}
	return domain.Task{ID: id, Title: in.Title, Details: in.Details, Done: in.Done}, nil
}

func (s *SQL) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{ID: id}
	}
	return nil
}

func (s *SQL) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
