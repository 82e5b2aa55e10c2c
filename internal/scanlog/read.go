package scanlog

import (
	"context"
	"fmt"
)

// EventsForTicket returns every recorded scan of the given base-36 ticket ID
// in append order. Returns an empty slice (not nil) if the ticket was never
// scanned.
func (l *Log) EventsForTicket(ctx context.Context, ticketID string) ([]Event, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, ticket_id, scan_count, scanned_at
		FROM scan_events
		WHERE ticket_id = ?
		ORDER BY id COLLATE BINARY ASC
	`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("query scan events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.TicketID, &event.ScanCount, &event.ScannedAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan events: %w", err)
	}
	return events, nil
}

// CountEvents returns the total number of recorded scans.
func (l *Log) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := l.db.QueryRow("SELECT COUNT(*) FROM scan_events").Scan(&count); err != nil {
		return 0, fmt.Errorf("count scan events: %w", err)
	}
	return count, nil
}
