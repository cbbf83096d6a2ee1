// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQL text is assembled with Masterminds/squirrel and executed through
// database/sql. The blank import below registers the "sqlite3" driver;
// we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sq "github.com/Masterminds/squirrel"

	"github.com/aanand-mishra/student-manager/internal/config"
	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

const table = "students"

// columns lists the stored fields in Scan order. Never SELECT *: a new
// column would silently break the Scan ordering below.
var columns = []string{"id", "first_name", "last_name", "age", "code"}

// AUTOINCREMENT (not just INTEGER PRIMARY KEY) makes SQLite keep the
// highest id ever issued in sqlite_sequence, so ids are never reused
// after a delete.
const schema = `
	CREATE TABLE IF NOT EXISTS students (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT    NOT NULL,
		last_name  TEXT    NOT NULL,
		age        INTEGER NOT NULL,
		code       TEXT    NOT NULL
	)
`

// SQLite is the concrete implementation of storage.Storage.
//
// The pool is capped at one connection: the repository owns a single
// exclusive handle for its whole lifetime, and database/sql serialises
// callers on it.
type SQLite struct {
	Db *sql.DB

	closeOnce sync.Once
	closeErr  error
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.StoragePath (creating the file and
// its parent directory if needed), ensures the students table exists, and
// returns a ready-to-use *SQLite.
//
// Every failure path closes whatever was opened and returns an error
// wrapping storage.ErrInit.
func New(cfg *config.Config) (*SQLite, error) {
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: sqlite.New: create dir: %w", storage.ErrInit, err)
		}
	}

	// sql.Open does NOT open a real connection yet. It only validates the
	// driver name; Ping below forces the file to be opened.
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite.New: open db: %w", storage.ErrInit, err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite.New: ping: %w", storage.ErrInit, err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent: safe to run on every start.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite.New: create table: %w", storage.ErrInit, err)
	}

	return &SQLite{Db: db}, nil
}

// CreateStudent inserts a new row and returns the primary key SQLite
// assigned to it. student.ID is ignored.
func (s *SQLite) CreateStudent(student types.Student) (int64, error) {
	query, args, err := sq.Insert(table).
		Columns("first_name", "last_name", "age", "code").
		Values(student.FirstName, student.LastName, student.Age, student.Code).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: build query: %w", err)
	}

	// Placeholders keep user input out of the SQL text; the driver sends
	// values separately so they are never parsed as SQL.
	result, err := s.Db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CreateStudent: exec: %w", storage.ErrAccess, err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateStudent: last insert id: %w", storage.ErrAccess, err)
	}

	return lastID, nil
}

// GetStudents returns all rows ordered by ascending id.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	query, args, err := sq.Select(columns...).
		From(table).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: build query: %w", err)
	}

	rows, err := s.Db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStudents: query: %w", storage.ErrAccess, err)
	}
	defer rows.Close()

	// Empty, non-nil: an empty store is a normal result.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student

		if err := rows.Scan(
			&student.ID,
			&student.FirstName,
			&student.LastName,
			&student.Age,
			&student.Code,
		); err != nil {
			return nil, fmt.Errorf("%w: GetStudents: scan row: %w", storage.ErrAccess, err)
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStudents: rows iteration: %w", storage.ErrAccess, err)
	}

	return students, nil
}

// DeleteStudentByID removes the row with the given id. A missing id is
// reported as false, not as an error.
func (s *SQLite) DeleteStudentByID(id int64) (bool, error) {
	query, args, err := sq.Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("DeleteStudentByID: build query: %w", err)
	}

	result, err := s.Db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: DeleteStudentByID: exec: %w", storage.ErrAccess, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: DeleteStudentByID: rows affected: %w", storage.ErrAccess, err)
	}

	return affected > 0, nil
}

// CountStudents returns the total number of rows.
func (s *SQLite) CountStudents() (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("CountStudents: build query: %w", err)
	}

	var count int
	if err := s.Db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountStudents: scan: %w", storage.ErrAccess, err)
	}

	return count, nil
}

// Close releases the database handle. Only the first call does any work;
// later calls return the same result.
func (s *SQLite) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.Db.Close()
	})
	return s.closeErr
}
