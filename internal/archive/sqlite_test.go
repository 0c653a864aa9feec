package archive

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protokollo/internal/audit"
	"protokollo/internal/platform/sqlite"
	"protokollo/internal/registration/models"
	"protokollo/internal/registration/store/ledger"
)

func newSQLiteFixture(t *testing.T) (*SQLiteStore, *ledger.SQLiteStore, *audit.SQLiteStore, *sql.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := ledger.NewSQLite(db)
	require.NoError(t, l.EnsureSchema(ctx))
	a := audit.NewSQLite(db)
	require.NoError(t, a.EnsureSchema(ctx))
	store := NewSQLite(db)
	require.NoError(t, store.EnsureSchema(ctx))
	return store, l, a, db
}

func TestSQLiteStore_MoveMonth(t *testing.T) {
	ctx := context.Background()
	store, l, a, db := newSQLiteFixture(t)

	seed := func(year int, month time.Month, protocol int64) *models.Registration {
		reg := &models.Registration{
			ID:              uuid.New(),
			Category:        models.CommonIncoming,
			Issuer:          "HQ",
			ReferenceNumber: "F.100/1",
			Subject:         "orders",
			Offices:         []string{"1ο ΓΡΑΦΕΙΟ"},
			ProtocolNumber:  protocol,
			EntryDate:       models.Date{Year: year, Month: month, Day: 10},
			CreatedAt:       time.Date(year, month, 10, 9, 0, 0, 0, time.UTC),
		}
		require.NoError(t, l.Append(ctx, reg))
		require.NoError(t, a.Append(ctx, audit.NewEvent(audit.ActionCreate, reg.ID, "clerk", reg.CreatedAt)))
		return reg
	}

	marchA := seed(2025, time.March, 40001)
	seed(2025, time.March, 40002)
	april := seed(2025, time.April, 40001)

	moved, err := store.MoveMonth(ctx, models.Period("2025-03"))
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	count, err := l.CountByPeriod(ctx, models.Period("2025-03"))
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = l.CountByPeriod(ctx, models.Period("2025-04"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	events, err := a.ListByRegistration(ctx, marchA.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = a.ListByRegistration(ctx, april.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	var archived int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM archived_registrations WHERE entry_period = ?`, "2025-03").Scan(&archived))
	assert.Equal(t, 2, archived)

	t.Run("second move is a no-op", func(t *testing.T) {
		moved, err := store.MoveMonth(ctx, models.Period("2025-03"))
		require.NoError(t, err)
		assert.Zero(t, moved)
	})
}

func TestSQLiteStore_Batches(t *testing.T) {
	ctx := context.Background()
	store, _, _, _ := newSQLiteFixture(t)

	first := Batch{
		ID:         uuid.New(),
		Month:      models.Period("2025-02"),
		ItemsMoved: 4,
		RanAt:      time.Date(2025, time.March, 1, 2, 0, 0, 0, time.UTC),
	}
	second := Batch{
		ID:         uuid.New(),
		Month:      models.Period("2025-03"),
		ItemsMoved: 0,
		RanAt:      time.Date(2025, time.April, 1, 2, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.RecordBatch(ctx, first))
	require.NoError(t, store.RecordBatch(ctx, second))

	batches, err := store.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, first.ID, batches[0].ID)
	assert.Equal(t, first.Month, batches[0].Month)
	assert.Equal(t, 4, batches[0].ItemsMoved)
	assert.True(t, first.RanAt.Equal(batches[0].RanAt))
	assert.Equal(t, second.ID, batches[1].ID)
}
