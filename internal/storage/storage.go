// Package storage defines the Storage interface — the contract the
// console layer relies on to persist student records.
//
// The console never talks to SQLite directly. It only sees this
// interface, so tests can drive the menu with an in-memory fake and the
// backing database can change without touching the caller.
package storage

import (
	"errors"
	"io"

	"github.com/aanand-mishra/student-manager/internal/types"
)

// Error taxonomy. Concrete implementations wrap the underlying driver
// error with one of these sentinels so callers can branch with errors.Is.
var (
	// ErrInit means the store could not be opened or its schema could not
	// be created. The process cannot continue.
	ErrInit = errors.New("storage: initialization failed")

	// ErrAccess means an operation could not reach the store (I/O fault,
	// corrupted file, handle already closed). Nothing is retried.
	ErrAccess = errors.New("storage: store access failed")
)

// Storage is the student repository contract.
//
// Deleting an id that does not exist is not an error: DeleteStudentByID
// reports it as (false, nil).
type Storage interface {
	// CreateStudent inserts a new record and returns the id assigned by
	// the store. student.ID is ignored.
	CreateStudent(student types.Student) (int64, error)

	// GetStudents returns every record ordered by ascending id.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents() ([]types.Student, error)

	// DeleteStudentByID removes at most one record and reports whether a
	// row was actually removed.
	DeleteStudentByID(id int64) (bool, error)

	// CountStudents returns the number of stored records.
	CountStudents() (int, error)

	// Close releases the underlying handle. Safe to call more than once.
	io.Closer
}
