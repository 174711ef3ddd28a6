package migration

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

type addIndex struct{}

func (addIndex) Up(db *gorm.DB) error {
	return db.Exec("CREATE INDEX idx_widgets_name ON widgets(name)").Error
}
func (addIndex) Down(db *gorm.DB) error {
	return db.Exec("DROP INDEX idx_widgets_name").Error
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRunRollbackStatus(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer

	entries := []Entry{
		{Name: "20260102000000_add_widget_index", Migration: addIndex{}},
		{Name: "20260101000000_create_widgets", Migration: createWidgets{}},
	}
	r := New(db, &out, entries[1:])

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	// A second binary knows about one more migration: it runs in batch 2.
	r = New(db, &out, entries)
	n, err = r.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, []StatusRow{
		{Name: "20260101000000_create_widgets", Ran: true, Batch: 1},
		{Name: "20260102000000_add_widget_index", Ran: true, Batch: 2},
	}, rows)

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "Nothing to migrate.")

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRollback_UnknownMigration(t *testing.T) {
	db := openDB(t)

	_, err := New(db, nil, []Entry{{Name: "20260101000000_create_widgets", Migration: createWidgets{}}}).Run()
	require.NoError(t, err)

	_, err = New(db, nil, nil).Rollback()
	assert.ErrorIs(t, err, ErrNotRegistered)
}
