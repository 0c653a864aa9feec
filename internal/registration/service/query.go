package service

import (
	"context"
	"sort"

	"protokollo/internal/registration/models"
)

// List answers "registrations for period P, optionally tier T" with a
// deterministic order. Reads never block writers; the result reflects every
// append that completed before the read began.
func (s *Service) List(ctx context.Context, q models.ListQuery) (*models.ListResult, error) {
	var categories []models.Category
	if q.Tier != "" {
		categories = models.TierCategories(q.Tier)
	}

	items, err := s.ledger.ListByPeriod(ctx, q.Period, categories)
	if err != nil {
		return nil, persistenceError(ctx, err)
	}
	total, err := s.ledger.CountByPeriod(ctx, q.Period)
	if err != nil {
		return nil, persistenceError(ctx, err)
	}

	sortRegistrations(items, q.Sort)
	if items == nil {
		items = []*models.Registration{}
	}
	return &models.ListResult{Month: q.Period, Items: items, Total: total}, nil
}

// sortRegistrations orders in place. The tie-break on descending id makes
// the order stable across repeated calls regardless of store iteration
// order, which the UI relies on when polling.
func sortRegistrations(items []*models.Registration, key models.SortKey) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if key == models.SortByProtocol {
			if a.ProtocolNumber != b.ProtocolNumber {
				return a.ProtocolNumber > b.ProtocolNumber
			}
		} else {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID.String() > b.ID.String()
	})
}
