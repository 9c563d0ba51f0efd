package progress

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coursegate/pkg/platform/sentinel"
)

type SQLiteStoreSuite struct {
	suite.Suite
	path  string
	store *SQLiteStore
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "progress.db")

	var err error
	s.store, err = OpenSQLite(s.path)
	s.Require().NoError(err)
}

func (s *SQLiteStoreSuite) TearDownTest() {
	if s.store != nil {
		s.Require().NoError(s.store.Close())
	}
}

// reopen closes the store and opens a fresh handle on the same file, as a
// new page load would.
func (s *SQLiteStoreSuite) reopen() {
	s.Require().NoError(s.store.Close())

	var err error
	s.store, err = OpenSQLite(s.path)
	s.Require().NoError(err)
}

func (s *SQLiteStoreSuite) TestLoad() {
	ctx := context.Background()

	s.Run("never-written set loads empty", func() {
		ids, err := s.store.Load(ctx)
		s.NoError(err)
		s.Empty(ids)
	})
}

func (s *SQLiteStoreSuite) TestSave() {
	ctx := context.Background()

	s.Run("save then load round-trips the element set", func() {
		s.Require().NoError(s.store.Save(ctx, []string{"lesson-1", "lesson-2"}))

		ids, err := s.store.Load(ctx)
		s.NoError(err)
		s.ElementsMatch([]string{"lesson-1", "lesson-2"}, ids)
	})

	s.Run("save replaces rather than merges", func() {
		s.Require().NoError(s.store.Save(ctx, []string{"lesson-1"}))
		s.Require().NoError(s.store.Save(ctx, []string{"lesson-9"}))

		ids, err := s.store.Load(ctx)
		s.NoError(err)
		s.ElementsMatch([]string{"lesson-9"}, ids)
	})

	s.Run("duplicate input collapses to set membership", func() {
		s.Require().NoError(s.store.Save(ctx, []string{"a", "a", "b"}))

		ids, err := s.store.Load(ctx)
		s.NoError(err)
		s.ElementsMatch([]string{"a", "b"}, ids)
	})
}

func (s *SQLiteStoreSuite) TestToggle() {
	ctx := context.Background()

	s.Run("toggle returns the new membership", func() {
		completed, err := s.store.Toggle(ctx, "lesson-7")
		s.NoError(err)
		s.True(completed)

		completed, err = s.store.Toggle(ctx, "lesson-7")
		s.NoError(err)
		s.False(completed)
	})

	s.Run("membership after toggle is the negation of before", func() {
		s.Require().NoError(s.store.Save(ctx, []string{"lesson-1"}))

		for _, id := range []string{"lesson-1", "lesson-2"} {
			before, err := s.store.Load(ctx)
			s.Require().NoError(err)

			after, err := s.store.Toggle(ctx, id)
			s.Require().NoError(err)
			s.Equal(!contains(before, id), after)
		}
	})
}

func (s *SQLiteStoreSuite) TestPersistsAcrossReopen() {
	ctx := context.Background()

	completed, err := s.store.Toggle(ctx, "lesson-7")
	s.Require().NoError(err)
	s.Require().True(completed)

	s.reopen()

	ids, err := s.store.Load(ctx)
	s.NoError(err)
	s.Contains(ids, "lesson-7")
}

func (s *SQLiteStoreSuite) TestMigrationDropsLegacyTables() {
	s.Require().NoError(s.store.Close())
	s.store = nil

	path := filepath.Join(s.T().TempDir(), "legacy.db")
	raw, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(raw.Exec(`CREATE TABLE courses (id TEXT PRIMARY KEY)`).Error)
	s.Require().NoError(raw.Exec(`CREATE TABLE users (id TEXT PRIMARY KEY)`).Error)
	sqlDB, err := raw.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	store, err := OpenSQLite(path)
	s.Require().NoError(err)
	defer store.Close()

	s.False(store.db.Migrator().HasTable("courses"))
	s.False(store.db.Migrator().HasTable("users"))
	s.True(store.db.Migrator().HasTable("completed_lessons"))
}

func (s *SQLiteStoreSuite) TestNewerSchemaIsUnavailable() {
	s.Require().NoError(s.store.Close())
	s.store = nil

	path := filepath.Join(s.T().TempDir(), "future.db")
	raw, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(raw.AutoMigrate(&schemaInfo{}))
	s.Require().NoError(raw.Create(&schemaInfo{ID: 1, Version: schemaVersion + 1}).Error)
	sqlDB, err := raw.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	_, err = OpenSQLite(path)
	s.ErrorIs(err, sentinel.ErrUnavailable)
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
