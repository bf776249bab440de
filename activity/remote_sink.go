package activity

import (
	"context"
	"time"

	"github.com/goliatone/go-adminauth/pkg/types"
	"github.com/google/uuid"
)

// RemoteSink writes audit entries through the hosted backend's record store.
// This is the production sink: the backend owns the durable log. The read
// side of the repository contract lives in remote_repository.go.
type RemoteSink struct {
	store types.RecordStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewRemoteSink wraps the backend record store.
func NewRemoteSink(store types.RecordStore, clock types.Clock, idGen types.IDGenerator) *RemoteSink {
	if clock == nil {
		clock = types.SystemClock{}
	}
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	return &RemoteSink{store: store, clock: clock, idGen: idGen}
}

var _ types.ActivitySink = (*RemoteSink)(nil)

// Log appends a record to the admin_activity_logs collection. AdminID maps
// to a null column when the actor was unauthenticated.
func (s *RemoteSink) Log(ctx context.Context, record types.ActivityRecord) error {
	if record.ID == uuid.Nil {
		record.ID = s.idGen.UUID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.clock.Now()
	}
	row := map[string]any{
		"id":            record.ID.String(),
		"activity_type": string(record.Kind),
		"description":   record.Description,
		"ip_address":    record.IP,
		"user_agent":    record.UserAgent,
		"created_at":    record.CreatedAt.Format(time.RFC3339),
	}
	if record.AdminID != uuid.Nil {
		row["admin_id"] = record.AdminID.String()
	} else {
		row["admin_id"] = nil
	}
	return s.store.Insert(ctx, types.CollectionActivityLogs, row)
}
