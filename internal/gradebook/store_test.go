package gradebook_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/db"
	"github.com/mind-engage/mindengage-grades/internal/gradebook"
)

// StoreSuite runs the same contract against every Store implementation.
type StoreSuite struct {
	suite.Suite
	ctx      context.Context
	newStore func(t *testing.T) gradebook.Store
	store    gradebook.Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore(s.T())
}

func mustRecord(t *testing.T, id, points, grade, category string) course.Record {
	t.Helper()
	r, err := course.Parse(id, "course "+id, points, grade, category)
	require.NoError(t, err)
	return r
}

func (s *StoreSuite) TestBooks() {
	t := s.T()
	b, err := s.store.CreateBook(s.ctx, gradebook.Book{ID: "b1", OwnerID: "u1", Name: "fall", CreatedAt: 1})
	require.NoError(t, err)
	assert.Equal(t, "fall", b.Name)

	_, err = s.store.CreateBook(s.ctx, gradebook.Book{ID: "b2", OwnerID: "u1", Name: "fall", CreatedAt: 2})
	assert.ErrorIs(t, err, gradebook.ErrNameTaken)

	_, err = s.store.CreateBook(s.ctx, gradebook.Book{ID: "b3", OwnerID: "u2", Name: "fall", CreatedAt: 3})
	require.NoError(t, err)

	list, err := s.store.ListBooks(s.ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Quota)

	require.NoError(t, s.store.SetQuota(s.ctx, "b1", 12))
	got, err := s.store.GetBook(s.ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, got.Quota)
	assert.Equal(t, 12, *got.Quota)

	assert.ErrorIs(t, s.store.SetQuota(s.ctx, "nope", 1), gradebook.ErrNotFound)
	_, err = s.store.GetBook(s.ctx, "nope")
	assert.ErrorIs(t, err, gradebook.ErrNotFound)

	require.NoError(t, s.store.DeleteBook(s.ctx, "b1"))
	_, err = s.store.GetBook(s.ctx, "b1")
	assert.ErrorIs(t, err, gradebook.ErrNotFound)
	assert.ErrorIs(t, s.store.DeleteBook(s.ctx, "b1"), gradebook.ErrNotFound)
}

func (s *StoreSuite) TestRecordsKeepOrderAndValues() {
	t := s.T()
	_, err := s.store.CreateBook(s.ctx, gradebook.Book{ID: "b1", OwnerID: "u1", Name: "spring", CreatedAt: 1})
	require.NoError(t, err)

	recs := []course.Record{
		mustRecord(t, "z", "2.5", "91.125", "math"),
		mustRecord(t, "a", "0.30000000000000004", "pass", course.Elective),
		mustRecord(t, "m", "4", "60", course.Elective),
	}
	require.NoError(t, s.store.SaveRecords(s.ctx, "b1", recs))
	got, err := s.store.LoadRecords(s.ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	require.NoError(t, s.store.SaveRecords(s.ctx, "b1", recs[:1]))
	got, err = s.store.LoadRecords(s.ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, recs[:1], got)

	assert.ErrorIs(t, s.store.SaveRecords(s.ctx, "missing", recs), gradebook.ErrNotFound)
	_, err = s.store.LoadRecords(s.ctx, "missing")
	assert.ErrorIs(t, err, gradebook.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(*testing.T) gradebook.Store { return gradebook.NewInMemoryStore() }})
}

func TestSQLStore_SQLite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) gradebook.Store {
		dsn := "file:" + filepath.Join(t.TempDir(), "grades.db") + "?mode=rwc"
		dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
		require.NoError(t, err)
		t.Cleanup(func() { dbh.Close() })
		return gradebook.NewSQLStore(dbh)
	}})
}
