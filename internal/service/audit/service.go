package audit

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
)

type AuditServiceImpl struct {
	audit.AuditRepository
	employee.EmployeeRepository
}

func NewAuditService(auditRepo audit.AuditRepository, employeeRepo employee.EmployeeRepository) audit.AuditService {
	return &AuditServiceImpl{
		AuditRepository:    auditRepo,
		EmployeeRepository: employeeRepo,
	}
}

// ListAuditTrail implements audit.AuditService.
func (s *AuditServiceImpl) ListAuditTrail(ctx context.Context, actorID string, entityType audit.EntityType, entityID string) ([]audit.Entry, error) {
	actor, err := s.EmployeeRepository.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := employee.Require(actor, employee.AuthorityViewAuditTrail); err != nil {
		return nil, err
	}
	if !entityType.IsValid() {
		return nil, audit.ErrUnknownEntityType
	}

	entries, err := s.AuditRepository.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit trail: %w", err)
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return entries, nil
}
