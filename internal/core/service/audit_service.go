package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tickethub/ticketing-system/internal/api/metrics"
	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

type auditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

// NewAuditService returns the AuditService implementation that persists
// dispatcher-drained events into the audit trail.
func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "error").Inc()
		return fmt.Errorf("audit insert: %w", err)
	}
	metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "ok").Inc()
	return nil
}

func (s *auditService) ListByUsername(ctx context.Context, username string) ([]*domain.AuditEvent, error) {
	return s.repo.ListByUsername(ctx, username)
}
