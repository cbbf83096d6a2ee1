package sqlite_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-manager/internal/config"
	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/storage/sqlite"
	"github.com/aanand-mishra/student-manager/internal/types"
)

func newTestStorage(t *testing.T) (*sqlite.SQLite, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "students.db")
	s, err := sqlite.New(&config.Config{Env: "dev", StoragePath: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dbPath
}

func ann() types.Student { return types.Student{FirstName: "Ann", LastName: "Lee", Age: 20, Code: "S1"} }
func bo() types.Student  { return types.Student{FirstName: "Bo", LastName: "Ng", Age: 22, Code: "S2"} }

func TestNew_CreatesFileAndDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "students.db")

	s, err := sqlite.New(&config.Config{StoragePath: dbPath})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "database file was not created")
}

func TestNew_Idempotent(t *testing.T) {
	s, dbPath := newTestStorage(t)

	_, err := s.CreateStudent(ann())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening an initialised store must keep existing rows.
	reopened, err := sqlite.New(&config.Config{StoragePath: dbPath})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.CountStudents()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNew_UnopenablePath(t *testing.T) {
	// A regular file where a directory is expected.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s, err := sqlite.New(&config.Config{StoragePath: filepath.Join(blocker, "students.db")})
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, storage.ErrInit)
}

func TestNew_CorruptedFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corrupt.db")
	require.NoError(t, os.WriteFile(dbPath, bytes.Repeat([]byte("garbage!"), 1024), 0o644))

	_, err := sqlite.New(&config.Config{StoragePath: dbPath})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInit)
}

func TestCreateAndList_Scenario(t *testing.T) {
	s, _ := newTestStorage(t)

	idA, err := s.CreateStudent(ann())
	require.NoError(t, err)
	idB, err := s.CreateStudent(bo())
	require.NoError(t, err)

	assert.Equal(t, int64(1), idA)
	assert.Equal(t, int64(2), idB)

	count, err := s.CountStudents()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	students, err := s.GetStudents()
	require.NoError(t, err)

	wantA := ann()
	wantA.ID = 1
	wantB := bo()
	wantB.ID = 2
	assert.Equal(t, []types.Student{wantA, wantB}, students)
}

func TestCreateStudent_IgnoresCallerID(t *testing.T) {
	s, _ := newTestStorage(t)

	in := ann()
	in.ID = 42

	id, err := s.CreateStudent(in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestCreateStudent_NoAgeRangeInStorage(t *testing.T) {
	s, _ := newTestStorage(t)

	in := ann()
	in.Age = 3

	_, err := s.CreateStudent(in)
	require.NoError(t, err)

	students, err := s.GetStudents()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 3, students[0].Age)
}

func TestGetStudents_Empty(t *testing.T) {
	s, _ := newTestStorage(t)

	students, err := s.GetStudents()
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestGetStudents_AscendingIDsAndCountMatches(t *testing.T) {
	s, _ := newTestStorage(t)

	for i := 0; i < 10; i++ {
		_, err := s.CreateStudent(ann())
		require.NoError(t, err)
	}
	_, err := s.DeleteStudentByID(4)
	require.NoError(t, err)
	_, err = s.DeleteStudentByID(7)
	require.NoError(t, err)

	students, err := s.GetStudents()
	require.NoError(t, err)
	count, err := s.CountStudents()
	require.NoError(t, err)

	assert.Equal(t, len(students), count)
	for i := 1; i < len(students); i++ {
		assert.Less(t, students[i-1].ID, students[i].ID)
	}
}

func TestGetStudents_FullNameRoundTrip(t *testing.T) {
	s, _ := newTestStorage(t)

	_, err := s.CreateStudent(types.Student{FirstName: "Mary Jane", LastName: "Watson", Age: 30, Code: "MJ"})
	require.NoError(t, err)

	students, err := s.GetStudents()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Mary Jane Watson", students[0].FullName())
}

func TestDeleteStudentByID_MissingOnEmptyStore(t *testing.T) {
	s, _ := newTestStorage(t)

	deleted, err := s.DeleteStudentByID(99)
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err := s.CountStudents()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteStudentByID_MissingLeavesStoreUnchanged(t *testing.T) {
	s, _ := newTestStorage(t)

	_, err := s.CreateStudent(ann())
	require.NoError(t, err)
	before, err := s.GetStudents()
	require.NoError(t, err)

	deleted, err := s.DeleteStudentByID(99)
	require.NoError(t, err)
	assert.False(t, deleted)

	after, err := s.GetStudents()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteStudentByID_Existing(t *testing.T) {
	s, _ := newTestStorage(t)

	idA, err := s.CreateStudent(ann())
	require.NoError(t, err)
	_, err = s.CreateStudent(bo())
	require.NoError(t, err)

	deleted, err := s.DeleteStudentByID(idA)
	require.NoError(t, err)
	assert.True(t, deleted)

	count, err := s.CountStudents()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	students, err := s.GetStudents()
	require.NoError(t, err)
	for _, st := range students {
		assert.NotEqual(t, idA, st.ID)
	}

	// A second delete of the same id finds nothing.
	deleted, err = s.DeleteStudentByID(idA)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteStudentByID_OnlyRecord(t *testing.T) {
	s, _ := newTestStorage(t)

	id, err := s.CreateStudent(ann())
	require.NoError(t, err)

	deleted, err := s.DeleteStudentByID(id)
	require.NoError(t, err)
	assert.True(t, deleted)

	count, err := s.CountStudents()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	students, err := s.GetStudents()
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestIDsNeverReused(t *testing.T) {
	s, dbPath := newTestStorage(t)

	_, err := s.CreateStudent(ann())
	require.NoError(t, err)
	last, err := s.CreateStudent(bo())
	require.NoError(t, err)

	_, err = s.DeleteStudentByID(last)
	require.NoError(t, err)

	next, err := s.CreateStudent(bo())
	require.NoError(t, err)
	assert.Greater(t, next, last)

	// The sequence survives a restart as well.
	_, err = s.DeleteStudentByID(next)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := sqlite.New(&config.Config{StoragePath: dbPath})
	require.NoError(t, err)
	defer reopened.Close()

	afterRestart, err := reopened.CreateStudent(ann())
	require.NoError(t, err)
	assert.Greater(t, afterRestart, next)
}

func TestClose_Twice(t *testing.T) {
	s, _ := newTestStorage(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestOperationsAfterClose(t *testing.T) {
	s, _ := newTestStorage(t)
	require.NoError(t, s.Close())

	_, err := s.CreateStudent(ann())
	assert.ErrorIs(t, err, storage.ErrAccess)

	_, err = s.GetStudents()
	assert.ErrorIs(t, err, storage.ErrAccess)

	_, err = s.DeleteStudentByID(1)
	assert.ErrorIs(t, err, storage.ErrAccess)

	_, err = s.CountStudents()
	assert.ErrorIs(t, err, storage.ErrAccess)
}
