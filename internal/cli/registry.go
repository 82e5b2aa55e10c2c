package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/fairgate/fairgate/internal/snapshot"
	"github.com/fairgate/fairgate/internal/ticket"
)

// openRegistry loads the registry file named by the --registry flag.
// Unreadable files are command errors; a malformed or corrupted registry is
// an operation failure.
func openRegistry(opts *RootOptions) (*ticket.Table, error) {
	if opts.Registry == "" {
		return nil, NewExitError(ExitCommandError, "no registry file given; use --registry")
	}
	table, err := snapshot.LoadFile(opts.Registry)
	if err != nil {
		if ticket.IsCode(err, ticket.CodeInvalidFilepath) {
			return nil, WrapExitError(ExitCommandError, "cannot read registry", err)
		}
		return nil, WrapExitError(ExitFailure, "cannot load registry", err)
	}
	slog.Debug("registry loaded", "path", opts.Registry, "tickets", table.Count())
	return table, nil
}

// saveRegistry writes the registry back to the --registry path.
func saveRegistry(opts *RootOptions, table *ticket.Table) error {
	if err := snapshot.SaveFile(table, opts.Registry); err != nil {
		return WrapExitError(ExitFailure, "cannot save registry", err)
	}
	slog.Debug("registry saved", "path", opts.Registry, "tickets", table.Count())
	return nil
}

// parseTicketArg decodes a base-36 ticket ID argument.
func parseTicketArg(arg string) (ticket.TicketID, error) {
	id, err := ticket.ParseTicketID(arg)
	if err != nil {
		return ticket.InvalidTicketID, WrapExitError(ExitCommandError,
			fmt.Sprintf("invalid ticket ID %q", arg), err)
	}
	return id, nil
}

// parseEntryArgs builds an unvalidated entry from the positional
// last-name/first-name/grade/category arguments shared by emit and change.
func parseEntryArgs(lastName, firstName, gradeArg, categoryArg string) (ticket.Entry, error) {
	grade, err := strconv.ParseUint(gradeArg, 10, 8)
	if err != nil {
		return ticket.Entry{}, WrapExitError(ExitCommandError,
			fmt.Sprintf("invalid grade %q", gradeArg), err)
	}
	if len(categoryArg) != 1 {
		return ticket.Entry{}, NewExitError(ExitCommandError,
			fmt.Sprintf("grade category %q must be a single letter", categoryArg))
	}
	return ticket.NewEntry(firstName, lastName, uint8(grade), categoryArg[0]), nil
}

// ticketView is the command output shape for a single ticket.
type ticketView struct {
	TicketID      string `json:"ticket_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Grade         uint8  `json:"grade"`
	GradeCategory string `json:"grade_category"`
	ScanCount     uint32 `json:"scan_count"`
	LastScanDate  string `json:"last_scan_date,omitempty"`
}

func newTicketView(id ticket.TicketID, entry *ticket.Entry) ticketView {
	return ticketView{
		TicketID:      ticket.FormatTicketID(id),
		FirstName:     entry.FirstName,
		LastName:      entry.LastName,
		Grade:         entry.Grade,
		GradeCategory: string(entry.GradeCategory),
		ScanCount:     entry.Metadata.ScanCount,
		LastScanDate:  entry.Metadata.LastScanDate,
	}
}

func (v ticketView) String() string {
	s := fmt.Sprintf("ID:         %s\nFirst name: %s\nLast name:  %s\nGrade:      %d%s",
		v.TicketID, v.FirstName, v.LastName, v.Grade, v.GradeCategory)
	if v.ScanCount > 0 {
		s += fmt.Sprintf("\nScans:      %d (last %s)", v.ScanCount, v.LastScanDate)
	}
	return s
}
