// Package audit writes the append-only audit ledger.
//
// Recording is fire and forget from the caller's point of view: a failed
// write is logged and counted, and the operation that triggered it carries on.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"tenantkit.dev/api/common/id"
	"tenantkit.dev/api/internal/model"
)

// Writer is the slice of the audit log store the recorder needs.
type Writer interface {
	Create(ctx context.Context, entry *model.AuditLog) error
}

// FailureObserver is told about every entry that could not be written.
type FailureObserver interface {
	AuditWriteFailed()
}

// Entry describes one audited action. ActorID is nil for system actions.
type Entry struct {
	OrganizationID int64
	ActorID        *int64
	Action         model.AuditAction
	ResourceType   model.ResourceType
	ResourceID     string
	Metadata       map[string]any
}

type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type recorder struct {
	writer   Writer
	observer FailureObserver
}

func NewRecorder(writer Writer, observer FailureObserver) Recorder {
	return &recorder{writer: writer, observer: observer}
}

func (r *recorder) Record(ctx context.Context, entry Entry) {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil || entry.Metadata == nil {
		if err != nil {
			slog.WarnContext(ctx, "audit metadata not serializable, dropping it",
				"error", err,
				"action", entry.Action)
		}
		metadata = []byte("{}")
	}

	row := &model.AuditLog{
		ID:             id.New(),
		OrganizationID: entry.OrganizationID,
		UserID:         entry.ActorID,
		Action:         entry.Action,
		ResourceType:   entry.ResourceType,
		ResourceID:     entry.ResourceID,
		Metadata:       metadata,
	}
	if p, ok := ProvenanceFrom(ctx); ok {
		row.IPAddress = nonEmpty(p.IPAddress)
		row.UserAgent = nonEmpty(p.UserAgent)
		row.RequestID = nonEmpty(p.RequestID)
	}

	if err := r.writer.Create(ctx, row); err != nil {
		slog.ErrorContext(ctx, "failed to write audit log",
			"error", err,
			"organization_id", entry.OrganizationID,
			"action", entry.Action,
			"resource_type", entry.ResourceType,
			"resource_id", entry.ResourceID)
		if r.observer != nil {
			r.observer.AuditWriteFailed()
		}
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
