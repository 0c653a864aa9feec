package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protokollo/internal/registration/models"
)

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	base := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	clock := base
	f.service.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	create := func(t *testing.T, tag string, day int) *models.Registration {
		t.Helper()
		var req models.CreateRequest
		if c, err := models.ParseCategory(tag); err == nil && c.Outgoing() {
			req = outgoingRequest()
		} else {
			req = incomingRequest()
		}
		req.EntryDate = entryDate(2025, time.March, day)
		reg, err := f.service.Create(ctx, tag, req, "clerk")
		require.NoError(t, err)
		return reg
	}

	first := create(t, "common_incoming", 3)
	second := create(t, "signals_outgoing", 4)
	third := create(t, "common_outgoing", 5)

	april := incomingRequest()
	april.EntryDate = entryDate(2025, time.April, 1)
	_, err := f.service.Create(ctx, "common_incoming", april, "clerk")
	require.NoError(t, err)

	march := models.Period("2025-03")

	t.Run("date sort is newest first", func(t *testing.T) {
		res, err := f.service.List(ctx, models.ListQuery{Period: march, Sort: models.SortByDate})
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		assert.Equal(t, third.ID, res.Items[0].ID)
		assert.Equal(t, second.ID, res.Items[1].ID)
		assert.Equal(t, first.ID, res.Items[2].ID)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, march, res.Month)
	})

	t.Run("protocol sort is highest first", func(t *testing.T) {
		res, err := f.service.List(ctx, models.ListQuery{Period: march, Sort: models.SortByProtocol})
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		// common books hold 40001 (incoming) and 40001 (outgoing); signals
		// holds 1. Equal protocol numbers fall back to descending id.
		assert.Equal(t, int64(40001), res.Items[0].ProtocolNumber)
		assert.Equal(t, int64(40001), res.Items[1].ProtocolNumber)
		assert.Greater(t, res.Items[0].ID.String(), res.Items[1].ID.String())
		assert.Equal(t, second.ID, res.Items[2].ID)
	})

	t.Run("tier filter keeps the unfiltered total", func(t *testing.T) {
		res, err := f.service.List(ctx, models.ListQuery{Period: march, Tier: models.TierSignals, Sort: models.SortByDate})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, second.ID, res.Items[0].ID)
		assert.Equal(t, 3, res.Total, "total counts every live registration of the month")
	})

	t.Run("repeated reads are identical", func(t *testing.T) {
		a, err := f.service.List(ctx, models.ListQuery{Period: march, Sort: models.SortByDate})
		require.NoError(t, err)
		b, err := f.service.List(ctx, models.ListQuery{Period: march, Sort: models.SortByDate})
		require.NoError(t, err)
		require.Equal(t, len(a.Items), len(b.Items))
		for i := range a.Items {
			assert.Equal(t, a.Items[i].ID, b.Items[i].ID)
		}
	})

	t.Run("empty month yields an empty page", func(t *testing.T) {
		res, err := f.service.List(ctx, models.ListQuery{Period: models.Period("2030-01"), Sort: models.SortByDate})
		require.NoError(t, err)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
		assert.Zero(t, res.Total)
	})

	t.Run("deleted registrations disappear from listings", func(t *testing.T) {
		require.NoError(t, f.service.Delete(ctx, first.ID, "officer"))
		res, err := f.service.List(ctx, models.ListQuery{Period: march, Sort: models.SortByDate})
		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.Total)
	})
}
