// Package console implements the interactive text menu that drives the
// student repository.
//
// The menu is an explicit finite-state loop:
//
//	menu ──1──▶ add    ──▶ menu
//	     ──2──▶ view   ──▶ menu
//	     ──3──▶ delete ──▶ menu
//	     ──4──▶ count  ──▶ menu
//	     ──5──▶ exit
//
// End of input in any state moves straight to exit. The only thing the
// states share is the *Menu, which carries the repository handle and
// the I/O streams passed in by the caller.
package console

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/types"
	"github.com/aanand-mishra/student-manager/internal/validation"
)

type state int

const (
	stateMenu state = iota
	stateAdd
	stateView
	stateDelete
	stateCount
	stateExit
)

// choices maps a menu selection to the state it enters.
var choices = map[string]state{
	"1": stateAdd,
	"2": stateView,
	"3": stateDelete,
	"4": stateCount,
	"5": stateExit,
}

// Menu is one interactive session against a single repository.
type Menu struct {
	storage storage.Storage
	in      *bufio.Scanner
	out     io.Writer
	log     *slog.Logger
}

// New returns a Menu that reads commands from in and writes to out.
// The caller keeps ownership of st and must close it after Run returns.
func New(st storage.Storage, in io.Reader, out io.Writer, log *slog.Logger) *Menu {
	return &Menu{
		storage: st,
		in:      bufio.NewScanner(in),
		out:     out,
		log:     log,
	}
}

// Run drives the menu until the user exits or input ends. It returns a
// non-nil error only when reading input fails.
func (m *Menu) Run() error {
	fmt.Fprintln(m.out, "=== Student Management System ===")

	for s := stateMenu; s != stateExit; {
		switch s {
		case stateMenu:
			s = m.menu()
		case stateAdd:
			s = m.add()
		case stateView:
			s = m.view()
		case stateDelete:
			s = m.delete()
		case stateCount:
			s = m.count()
		default:
			s = stateExit
		}
	}

	fmt.Fprintln(m.out, "Goodbye!")

	if err := m.in.Err(); err != nil {
		return fmt.Errorf("console: read input: %w", err)
	}
	return nil
}

func (m *Menu) menu() state {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "1. Add Student")
	fmt.Fprintln(m.out, "2. View Students")
	fmt.Fprintln(m.out, "3. Delete Student")
	fmt.Fprintln(m.out, "4. Count Students")
	fmt.Fprintln(m.out, "5. Exit")

	choice, ok := m.prompt("Choose option: ")
	if !ok {
		return stateExit
	}

	next, found := choices[choice]
	if !found {
		fmt.Fprintln(m.out, "Invalid choice!")
		return stateMenu
	}
	return next
}

func (m *Menu) add() state {
	var student types.Student
	var ok bool

	if student.FirstName, ok = m.prompt("First Name: "); !ok {
		return stateExit
	}
	if student.LastName, ok = m.prompt("Last Name: "); !ok {
		return stateExit
	}

	rawAge, ok := m.prompt("Age: ")
	if !ok {
		return stateExit
	}
	age, err := strconv.Atoi(rawAge)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid age!")
		return stateMenu
	}
	student.Age = age

	if student.Code, ok = m.prompt("Student Code: "); !ok {
		return stateExit
	}

	if err := validation.Student(student); err != nil {
		fmt.Fprintf(m.out, "Invalid student: %s\n", err)
		return stateMenu
	}

	id, err := m.storage.CreateStudent(student)
	if err != nil {
		m.fail("create student", err)
		return stateMenu
	}

	m.log.Info("student created", slog.Int64("id", id))
	fmt.Fprintf(m.out, "Student added successfully! (ID: %d)\n", id)
	return stateMenu
}

func (m *Menu) view() state {
	students, err := m.storage.GetStudents()
	if err != nil {
		m.fail("list students", err)
		return stateMenu
	}

	if len(students) == 0 {
		fmt.Fprintln(m.out, "No students found.")
		return stateMenu
	}

	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tAge\tStudent Code")
	fmt.Fprintln(w, "--\t----\t---\t------------")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", s.ID, s.FullName(), s.Age, s.Code)
	}
	w.Flush()

	return stateMenu
}

func (m *Menu) delete() state {
	rawID, ok := m.prompt("Enter student ID to delete: ")
	if !ok {
		return stateExit
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid ID!")
		return stateMenu
	}

	answer, ok := m.prompt("Are you sure? (y/n): ")
	if !ok {
		return stateExit
	}
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		fmt.Fprintln(m.out, "Deletion cancelled.")
		return stateMenu
	}

	deleted, err := m.storage.DeleteStudentByID(id)
	if err != nil {
		m.fail("delete student", err)
		return stateMenu
	}

	if !deleted {
		fmt.Fprintln(m.out, "Student not found!")
		return stateMenu
	}

	m.log.Info("student deleted", slog.Int64("id", id))
	fmt.Fprintln(m.out, "Student deleted successfully!")
	return stateMenu
}

func (m *Menu) count() state {
	n, err := m.storage.CountStudents()
	if err != nil {
		m.fail("count students", err)
		return stateMenu
	}

	fmt.Fprintf(m.out, "Total students: %d\n", n)
	return stateMenu
}

// prompt writes label and reads one trimmed line. ok is false once input
// is exhausted or unreadable.
func (m *Menu) prompt(label string) (line string, ok bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// fail reports a store error to the user and the log; the menu then
// carries on.
func (m *Menu) fail(op string, err error) {
	m.log.Error("operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()))
	fmt.Fprintf(m.out, "Error: %s\n", err)
}
