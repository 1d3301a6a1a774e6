package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EventMirror is the bun-mapped row shape of one swf.Event, scoped to
// one workflow execution. It is an append-only mirror: rows are never
// updated, matching the event-sourced history it shadows.
type EventMirror struct {
	bun.BaseModel `bun:"table:event_mirror,alias:em"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	WorkflowID     string    `bun:"workflow_id,notnull"`
	RunID          string    `bun:"run_id,notnull"`
	EventID        int64     `bun:"event_id,notnull"`
	EventType      string    `bun:"event_type,notnull"`
	EventTimestamp time.Time `bun:"event_timestamp,notnull"`
	Attributes     string    `bun:"attributes,type:jsonb,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
