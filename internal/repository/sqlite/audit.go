package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/audit"
	"github.com/google/uuid"
)

type auditRepository struct {
	store *Store
}

func NewAuditRepository(store *Store) audit.AuditRepository {
	return &auditRepository{store: store}
}

func nullJSON(raw json.RawMessage) sql.NullString {
	if raw == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

func (r *auditRepository) Append(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return audit.Entry{}, fmt.Errorf("generate audit id: %w", err)
	}
	entry.ID = id.String()
	entry.CreatedAt = time.Now().UTC()

	query := `INSERT INTO audit_entries (id, actor_id, action, entity_type, entity_id, before, after, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.store.conn(ctx).ExecContext(ctx, query,
		entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID,
		nullJSON(entry.Before), nullJSON(entry.After), formatTime(entry.CreatedAt),
	)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return entry, nil
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityType audit.EntityType, entityID string) ([]audit.Entry, error) {
	query := `SELECT id, actor_id, action, entity_type, entity_id, before, after, created_at
		FROM audit_entries
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY created_at, id`
	rows, err := r.store.conn(ctx).QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e             audit.Entry
			before, after sql.NullString
			createdAt     string
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &before, &after, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if before.Valid {
			e.Before = json.RawMessage(before.String)
		}
		if after.Valid {
			e.After = json.RawMessage(after.String)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
