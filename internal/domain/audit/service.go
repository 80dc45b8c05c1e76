package audit

import (
	"context"
	"errors"
)

var ErrUnknownEntityType = errors.New("entity type must be request, employee or attendance")

func (t EntityType) IsValid() bool {
	switch t {
	case EntityRequest, EntityEmployee, EntityAttendance:
		return true
	}
	return false
}

// AuditService exposes the trail to holders of View Audit Trail
type AuditService interface {
	ListAuditTrail(ctx context.Context, actorID string, entityType EntityType, entityID string) ([]Entry, error)
}
