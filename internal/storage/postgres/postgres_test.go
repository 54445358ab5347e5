package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/database"
)

func setupAdapter(t *testing.T) (*Adapter, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestAdapter_Get_Success(t *testing.T) {
	a, mock := setupAdapter(t)

	mock.ExpectQuery("SELECT value FROM kv_store").
		WithArgs("wishlist").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`[3,7,12]`)))

	got, err := a.Get(context.Background(), "wishlist")
	require.NoError(t, err)
	assert.Equal(t, `[3,7,12]`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Get_NotFound(t *testing.T) {
	a, mock := setupAdapter(t)

	mock.ExpectQuery("SELECT value FROM kv_store").
		WithArgs("cart").
		WillReturnError(pgx.ErrNoRows)

	got, err := a.Get(context.Background(), "cart")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Get_QueryError(t *testing.T) {
	a, mock := setupAdapter(t)

	mock.ExpectQuery("SELECT value FROM kv_store").
		WithArgs("cart").
		WillReturnError(errors.New("connection refused"))

	_, err := a.Get(context.Background(), "cart")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.Contains(t, err.Error(), "select kv cart")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Set
// ---------------------------------------------------------------------------

func TestAdapter_Set_Success(t *testing.T) {
	a, mock := setupAdapter(t)

	payload := []byte(`[{"id":1,"title":"A","price":10,"image":"u","quantity":1}]`)
	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("cart", payload).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, a.Set(context.Background(), "cart", payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Set_ExecError(t *testing.T) {
	a, mock := setupAdapter(t)

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("cart", []byte(`[]`)).
		WillReturnError(errors.New("disk full"))

	err := a.Set(context.Background(), "cart", []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert kv cart")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	a := New(mock)

	mock.ExpectPing()
	assert.NoError(t, a.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := Migrations.ReadDir("migrations")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "000001_create_kv_store.down.sql", entries[0].Name())
	assert.Equal(t, "000001_create_kv_store.up.sql", entries[1].Name())
}
