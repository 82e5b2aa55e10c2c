package scanlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Event is one recorded scan.
type Event struct {
	// ID is the UUIDv7 assigned when the event was appended. UUIDv7 is
	// time-ordered, so sorting by ID reproduces append order.
	ID string

	// TicketID is the base-36 textual identifier of the scanned ticket.
	TicketID string

	// ScanCount is the ticket's scan count after this scan.
	ScanCount uint32

	// ScannedAt is the local date-time string stamped on the registry entry.
	ScannedAt string
}

// NewEventID returns a fresh time-ordered event identifier.
func NewEventID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Append inserts a scan event. Uses ON CONFLICT(id) DO NOTHING so replaying
// the same event is idempotent; other constraint violations still return
// errors.
func (l *Log) Append(ctx context.Context, event Event) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO scan_events (id, ticket_id, scan_count, scanned_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		event.ID,
		event.TicketID,
		event.ScanCount,
		event.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("append scan event: %w", err)
	}
	return nil
}
