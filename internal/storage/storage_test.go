package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"equipment-dashboard/internal/model"
)

func newSQLiteStorage(t *testing.T) Storage {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.StorageEntry{}))
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })
	return NewGormStorage(db)
}

func TestStorageContract(t *testing.T) {
	backends := map[string]func(t *testing.T) Storage{
		"gorm-sqlite": newSQLiteStorage,
		"memory":      func(*testing.T) Storage { return NewMemoryStorage() },
	}

	for name, newStorage := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStorage(t)

			_, err := s.Get(ctx, "auth:missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "auth:a", []byte(`{"token":"one"}`)))
			got, err := s.Get(ctx, "auth:a")
			require.NoError(t, err)
			assert.Equal(t, `{"token":"one"}`, string(got))

			// Overwrite goes through the upsert path.
			require.NoError(t, s.Set(ctx, "auth:a", []byte(`{"token":"two"}`)))
			got, err = s.Get(ctx, "auth:a")
			require.NoError(t, err)
			assert.Equal(t, `{"token":"two"}`, string(got))

			require.NoError(t, s.Delete(ctx, "auth:a"))
			_, err = s.Get(ctx, "auth:a")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Delete(ctx, "auth:a"), "deleting an absent key is not an error")
		})
	}
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestGormStorage_PostgresUpsert(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	s := NewGormStorage(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "storage_entries"`) + `.*ON CONFLICT \("storage_key"\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Set(context.Background(), "auth:abc", []byte("{}")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStorage_PostgresNotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	s := NewGormStorage(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "storage_entries" WHERE storage_key = $1`)).
		WithArgs("auth:none", 1).
		WillReturnRows(sqlmock.NewRows([]string{"storage_key", "value", "updated_at"}))

	_, err = s.Get(context.Background(), "auth:none")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
