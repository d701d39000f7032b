package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
)

func TestPostgreSQLDataKeyRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLDataKeyRepository(db)

	key := &cryptoDomain.DataKey{
		WrappedKey: []byte("wrapped"),
		Status:     cryptoDomain.KeyStatusActive,
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectQuery(`INSERT INTO encryption_keys`).
		WithArgs(key.WrappedKey, "active", key.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))

	err = repo.Create(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 3, key.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDataKeyRepository_GetActive(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLDataKeyRepository(db)
	createdAt := time.Now().UTC()

	t.Run("returns active key", func(t *testing.T) {
		mock.ExpectQuery(`SELECT version, wrapped_key, status, created_at`).
			WithArgs("active").
			WillReturnRows(sqlmock.NewRows([]string{"version", "wrapped_key", "status", "created_at"}).
				AddRow(2, []byte("wrapped"), "active", createdAt))

		key, err := repo.GetActive(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, key.Version)
		assert.Equal(t, cryptoDomain.KeyStatusActive, key.Status)
		assert.Nil(t, key.Material)
	})

	t.Run("returns ErrNoActiveKey when missing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT version, wrapped_key, status, created_at`).
			WithArgs("active").
			WillReturnRows(sqlmock.NewRows([]string{"version", "wrapped_key", "status", "created_at"}))

		_, err := repo.GetActive(context.Background())
		assert.ErrorIs(t, err, cryptoDomain.ErrNoActiveKey)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDataKeyRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLDataKeyRepository(db)

	t.Run("updates existing key", func(t *testing.T) {
		mock.ExpectExec(`UPDATE encryption_keys SET status`).
			WithArgs("retired", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), 1, cryptoDomain.KeyStatusRetired)
		assert.NoError(t, err)
	})

	t.Run("unknown version yields not found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE encryption_keys SET status`).
			WithArgs("retired", 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), 99, cryptoDomain.KeyStatusRetired)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDataKeyRepository_DeleteByStatus(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLDataKeyRepository(db)

	mock.ExpectExec(`DELETE FROM encryption_keys WHERE status`).
		WithArgs("retired").
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.DeleteByStatus(context.Background(), cryptoDomain.KeyStatusRetired)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
