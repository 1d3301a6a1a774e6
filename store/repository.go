package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/smilemakc/jobtree/swf"
)

// EventRepository mirrors swf.Event rows for a read-only view the
// decider itself never queries (spec.md §1 "no persistence of its
// own" — this is strictly a side channel for package monitor and tests).
type EventRepository struct {
	db bun.IDB
}

// NewEventRepository wraps db (a *bun.DB or a *bun.Tx).
func NewEventRepository(db bun.IDB) *EventRepository {
	return &EventRepository{db: db}
}

// AppendBatch mirrors events observed for one workflow execution.
func (r *EventRepository) AppendBatch(ctx context.Context, workflowID, runID string, events []swf.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]*EventMirror, 0, len(events))
	for _, ev := range events {
		attrs, err := json.Marshal(ev.Attributes)
		if err != nil {
			return fmt.Errorf("store: encode event attributes: %w", err)
		}
		rows = append(rows, &EventMirror{
			WorkflowID:     workflowID,
			RunID:          runID,
			EventID:        ev.EventID,
			EventType:      ev.EventType,
			EventTimestamp: ev.EventTimestamp,
			Attributes:     string(attrs),
		})
	}
	if _, err := r.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("store: append events batch: %w", err)
	}
	return nil
}

// FindByWorkflowID retrieves every mirrored event for workflowID ordered
// by event id, the monitor's read path for a single execution's timeline.
func (r *EventRepository) FindByWorkflowID(ctx context.Context, workflowID string) ([]*EventMirror, error) {
	var rows []*EventMirror
	err := r.db.NewSelect().
		Model(&rows).
		Where("workflow_id = ?", workflowID).
		Order("event_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: find events by workflow id: %w", err)
	}
	return rows, nil
}

// LatestEventID returns the highest mirrored event id for workflowID, or
// 0 if none are mirrored yet — cmd/jobtreed uses it to mirror only newly
// observed events on each decision tick.
func (r *EventRepository) LatestEventID(ctx context.Context, workflowID string) (int64, error) {
	var maxID sql.NullInt64
	err := r.db.NewSelect().
		Model((*EventMirror)(nil)).
		ColumnExpr("MAX(event_id)").
		Where("workflow_id = ?", workflowID).
		Scan(ctx, &maxID)
	if err != nil {
		return 0, fmt.Errorf("store: latest event id: %w", err)
	}
	return maxID.Int64, nil
}
