package sequence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protokollo/internal/platform/sqlite"
	"protokollo/internal/registration/models"
)

func newSQLiteAllocator(t *testing.T) *SQLiteAllocator {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	alloc := NewSQLite(db, DefaultFloors())
	require.NoError(t, alloc.EnsureSchema(context.Background()))
	return alloc
}

func TestSQLiteAllocator_Next(t *testing.T) {
	ctx := context.Background()
	alloc := newSQLiteAllocator(t)
	period := models.Period("2025-03")

	t.Run("starts at the floor and increments", func(t *testing.T) {
		n, err := alloc.Next(ctx, KindProtocol, models.CommonIncoming, period)
		require.NoError(t, err)
		assert.Equal(t, int64(40001), n)

		n, err = alloc.Next(ctx, KindProtocol, models.CommonIncoming, period)
		require.NoError(t, err)
		assert.Equal(t, int64(40002), n)
	})

	t.Run("signals protocol floor", func(t *testing.T) {
		n, err := alloc.Next(ctx, KindProtocol, models.SignalsOutgoing, period)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("draft counters are separate", func(t *testing.T) {
		n, err := alloc.Next(ctx, KindDraft, models.CommonOutgoing, period)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = alloc.Next(ctx, KindProtocol, models.CommonOutgoing, period)
		require.NoError(t, err)
		assert.Equal(t, int64(40001), n)
	})

	t.Run("periods are separate", func(t *testing.T) {
		n, err := alloc.Next(ctx, KindProtocol, models.CommonIncoming, models.Period("2025-04"))
		require.NoError(t, err)
		assert.Equal(t, int64(40001), n)
	})

	t.Run("original counter continues past other keys", func(t *testing.T) {
		n, err := alloc.Next(ctx, KindProtocol, models.CommonIncoming, period)
		require.NoError(t, err)
		assert.Equal(t, int64(40003), n)
	})
}
