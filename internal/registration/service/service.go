// Package service orchestrates registration submissions and listing queries.
// A submission moves through validate, allocate, persist; a failure leaves no
// partial state except for numbers already allocated, which stay burned.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"protokollo/internal/audit"
	"protokollo/internal/catalog"
	"protokollo/internal/registration/metrics"
	"protokollo/internal/registration/models"
	"protokollo/internal/registration/store/ledger"
	"protokollo/internal/registration/store/sequence"
	dErrors "protokollo/pkg/domain-errors"
	"protokollo/pkg/sentinel"
)

// Service is the single write path into the ledger. All registrations are
// created through it exactly once; nothing updates them afterwards.
type Service struct {
	ledger  ledger.Store
	alloc   sequence.Allocator
	audit   audit.Store
	catalog *catalog.Catalog
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// New wires the service. metrics may be nil in tests.
func New(l ledger.Store, alloc sequence.Allocator, auditStore audit.Store, cat *catalog.Catalog, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ledger:  l,
		alloc:   alloc,
		audit:   auditStore,
		catalog: cat,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create registers a document under the category tag and returns the
// materialized record with its assigned numbers.
func (s *Service) Create(ctx context.Context, tag string, req models.CreateRequest, actor string) (*models.Registration, error) {
	category, err := models.ParseCategory(tag)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(category); err != nil {
		return nil, err
	}
	if category.Incoming() {
		if err := s.catalog.ValidateCodes(req.Offices); err != nil {
			return nil, err
		}
	}

	now := s.now()
	entryDate := models.DateOf(now)
	if req.EntryDate != nil && !req.EntryDate.IsZero() {
		entryDate = *req.EntryDate
	}
	period := entryDate.Period()

	allocStart := now
	protocol, err := s.alloc.Next(ctx, sequence.KindProtocol, category, period)
	if err != nil {
		return nil, allocationError(ctx, err)
	}
	var draft *int64
	if category.Outgoing() {
		n, err := s.alloc.Next(ctx, sequence.KindDraft, category, period)
		if err != nil {
			// The protocol number is already retired; only the draft
			// allocation failed before returning a value.
			s.metrics.IncBurned()
			return nil, allocationError(ctx, err)
		}
		draft = &n
	}
	s.metrics.ObserveAllocation(time.Since(allocStart))

	reg := &models.Registration{
		ID:              uuid.New(),
		Category:        category,
		Issuer:          req.Issuer,
		ReferenceNumber: req.ReferenceNumber,
		Subject:         req.Subject,
		Recipient:       req.Recipient,
		Offices:         append([]string(nil), req.Offices...),
		ProtocolNumber:  protocol,
		DraftNumber:     draft,
		EntryDate:       entryDate,
		CreatedAt:       s.now().UTC(),
	}

	persistStart := s.now()
	if err := s.ledger.Append(ctx, reg); err != nil {
		// The allocated numbers stay retired; the caller must resubmit and
		// will receive fresh ones.
		s.metrics.IncBurned()
		if draft != nil {
			s.metrics.IncBurned()
		}
		return nil, persistenceError(ctx, err)
	}
	s.metrics.ObservePersist(time.Since(persistStart))
	s.metrics.IncCreated(category.String())

	s.recordAudit(ctx, audit.ActionCreate, reg.ID, actor)
	return reg, nil
}

// Delete soft-deletes a registration. Numbers are never released.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	if err := s.ledger.MarkDeleted(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "registration %s not found", id)
		}
		return persistenceError(ctx, err)
	}
	s.metrics.IncDeleted()
	s.recordAudit(ctx, audit.ActionDelete, id, actor)
	return nil
}

// AuditTrail returns the audit events of one registration in occurrence
// order.
func (s *Service) AuditTrail(ctx context.Context, id uuid.UUID) ([]audit.Event, error) {
	return s.audit.ListByRegistration(ctx, id)
}

// recordAudit appends best-effort: the registration is already durable, so a
// broken audit store must not fail the submission. The drop is counted and
// logged instead.
func (s *Service) recordAudit(ctx context.Context, action audit.Action, id uuid.UUID, actor string) {
	event := audit.NewEvent(action, id, actor, s.now().UTC())
	if err := s.audit.Append(ctx, event); err != nil {
		s.metrics.IncAuditDropped()
		s.logger.ErrorContext(ctx, "audit event dropped",
			"action", string(action),
			"registration_id", id.String(),
			"error", err.Error(),
		)
	}
}

// allocationError maps an allocator failure. No value was returned, so the
// submission is retryable with no numbering side effects.
func allocationError(ctx context.Context, err error) error {
	if timedOut(ctx, err) {
		return dErrors.Wrap(dErrors.CodeTimeout, "number allocation timed out", err)
	}
	return dErrors.Wrap(dErrors.CodeUnavailable, "number allocation failed, retry the submission", err)
}

// persistenceError maps a ledger failure after allocation. The numbers are
// burned; the caller resubmits as a new logical request.
func persistenceError(ctx context.Context, err error) error {
	if timedOut(ctx, err) {
		return dErrors.Wrap(dErrors.CodeTimeout, "persistence timed out, allocated numbers are retired", err)
	}
	return dErrors.Wrap(dErrors.CodeUnavailable, "persistence failed, allocated numbers are retired", err)
}

func timedOut(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
