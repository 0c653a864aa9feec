package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protokollo/internal/platform/sqlite"
	"protokollo/internal/registration/models"
	"protokollo/pkg/sentinel"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewSQLite(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	incoming := newTestRegistration(models.CommonIncoming, 40001, 5)
	incoming.Offices = []string{"1ο ΓΡΑΦΕΙΟ", "ΔΙΟΙΚΗΤΗΣ"}
	require.NoError(t, store.Append(ctx, incoming))

	outgoing := newTestRegistration(models.SignalsOutgoing, 1, 6)
	require.NoError(t, store.Append(ctx, outgoing))

	got, err := store.GetByID(ctx, incoming.ID)
	require.NoError(t, err)
	assert.Equal(t, incoming.Category, got.Category)
	assert.Equal(t, incoming.Offices, got.Offices)
	assert.Empty(t, got.Recipient)
	assert.Nil(t, got.DraftNumber)
	assert.Equal(t, incoming.EntryDate, got.EntryDate)
	assert.True(t, incoming.CreatedAt.Equal(got.CreatedAt))

	got, err = store.GetByID(ctx, outgoing.ID)
	require.NoError(t, err)
	assert.Equal(t, outgoing.Recipient, got.Recipient)
	assert.Nil(t, got.Offices)
	require.NotNil(t, got.DraftNumber)
	assert.Equal(t, *outgoing.DraftNumber, *got.DraftNumber)
}

func TestSQLiteStore_UniqueNumberPerBook(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	first := newTestRegistration(models.CommonIncoming, 40001, 5)
	require.NoError(t, store.Append(ctx, first))

	t.Run("same number in the same book conflicts", func(t *testing.T) {
		dup := newTestRegistration(models.CommonIncoming, 40001, 9)
		err := store.Append(ctx, dup)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("same number in another category is fine", func(t *testing.T) {
		other := newTestRegistration(models.ConfidentialIncoming, 40001, 5)
		assert.NoError(t, store.Append(ctx, other))
	})

	t.Run("same number in another month is fine", func(t *testing.T) {
		april := newTestRegistration(models.CommonIncoming, 40001, 1)
		april.EntryDate = models.Date{Year: 2025, Month: time.April, Day: 1}
		assert.NoError(t, store.Append(ctx, april))
	})
}

func TestSQLiteStore_ListCountDelete(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	a := newTestRegistration(models.CommonIncoming, 40001, 3)
	b := newTestRegistration(models.SignalsOutgoing, 1, 4)
	require.NoError(t, store.Append(ctx, a))
	require.NoError(t, store.Append(ctx, b))

	march := models.Period("2025-03")

	items, err := store.ListByPeriod(ctx, march, nil)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = store.ListByPeriod(ctx, march, []models.Category{models.SignalsIncoming, models.SignalsOutgoing})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	count, err := store.CountByPeriod(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.MarkDeleted(ctx, a.ID, time.Now()))

	_, err = store.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	count, err = store.CountByPeriod(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	t.Run("deleting again is not found", func(t *testing.T) {
		err := store.MarkDeleted(ctx, a.ID, time.Now())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("deleting an unknown id is not found", func(t *testing.T) {
		err := store.MarkDeleted(ctx, uuid.New(), time.Now())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
