package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// AuditService appends one audit record per mutating operation. Writes are
// best-effort: a failed audit insert is logged and surfaced to the caller of
// Record, but services treat it as non-fatal once the primary write landed.
type AuditService struct {
	logs   repository.AuditLogRepository
	logger *zap.Logger
}

// NewAuditService constructs the service.
func NewAuditService(logs repository.AuditLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{logs: logs, logger: logger}
}

// Record appends an audit entry for a completed mutation.
func (s *AuditService) Record(ctx context.Context, actorID, action, entityType, entityID string, metadata map[string]any) {
	if s == nil || s.logs == nil {
		return
	}
	entry := &domain.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Error("audit record failed",
			zap.Error(err),
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID))
	}
}

// List returns audit entries matching the filter.
func (s *AuditService) List(ctx context.Context, filter repository.AuditLogFilter) ([]domain.AuditLog, error) {
	return s.logs.List(ctx, filter)
}
