// Package audit records who changed what, with JSON snapshots of the entity
// before and after the change.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Action string

const (
	ActionRequestApproved Action = "request.approved"
	ActionRequestRejected Action = "request.rejected"
	ActionRequestRevoked  Action = "request.revoked"
	ActionBalanceDebited  Action = "balance.debited"
	ActionBalanceCredited Action = "balance.credited"
	ActionSessionClosed   Action = "attendance.auto_closed"
	ActionAbsenceMarked   Action = "attendance.absence_marked"
)

type EntityType string

const (
	EntityRequest    EntityType = "request"
	EntityEmployee   EntityType = "employee"
	EntityAttendance EntityType = "attendance"
)

// SystemActor is used for changes made by scheduled jobs.
const SystemActor = "system"

type Entry struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     Action          `json:"action"`
	EntityType EntityType      `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewEntry marshals before and after into an entry. Either may be nil.
func NewEntry(actorID string, action Action, entityType EntityType, entityID string, before, after any) (Entry, error) {
	e := Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}

	var err error
	if before != nil {
		if e.Before, err = json.Marshal(before); err != nil {
			return Entry{}, fmt.Errorf("marshal audit before: %w", err)
		}
	}
	if after != nil {
		if e.After, err = json.Marshal(after); err != nil {
			return Entry{}, fmt.Errorf("marshal audit after: %w", err)
		}
	}
	return e, nil
}

type AuditRepository interface {
	Append(ctx context.Context, entry Entry) (Entry, error)
	ListByEntity(ctx context.Context, entityType EntityType, entityID string) ([]Entry, error)
}
