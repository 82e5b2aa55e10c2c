package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fairgate/fairgate/internal/scanlog"
	"github.com/fairgate/fairgate/internal/ticket"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	LogPath string
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan <ticket-id>",
		Short: "Register a scan of a ticket at the gate",
		Long: `Register a scan: stamp the current date-time on the ticket and
increment its scan count. Tickets flagged not-scannable are rejected.

With --log, the scan is also appended to a SQLite audit log so it survives
a crash before the next registry save.`,
		Aliases: []string{"s"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketArg(args[0])
			if err != nil {
				return err
			}

			table, err := openRegistry(opts.RootOptions)
			if err != nil {
				return err
			}

			if err := table.Rescan(id); err != nil {
				return WrapExitError(ExitFailure, "cannot scan ticket", err)
			}
			entry, err := table.Get(id)
			if err != nil {
				return WrapExitError(ExitFailure, "cannot scan ticket", err)
			}

			if err := saveRegistry(opts.RootOptions, table); err != nil {
				return err
			}

			if opts.LogPath != "" {
				if err := appendScanEvent(cmd.Context(), opts.LogPath, id, entry); err != nil {
					return WrapExitError(ExitFailure, "cannot record scan event", err)
				}
			}

			return formatter(opts.RootOptions, cmd.OutOrStdout()).Success(newTicketView(id, entry))
		},
	}

	cmd.Flags().StringVar(&opts.LogPath, "log", "", "path to a SQLite scan audit log")

	return cmd
}

func appendScanEvent(ctx context.Context, path string, id ticket.TicketID, entry *ticket.Entry) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := scanlog.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := log.Close(); closeErr != nil {
			slog.Error("error closing scan log", "error", closeErr)
		}
	}()

	event := scanlog.Event{
		ID:        scanlog.NewEventID(),
		TicketID:  ticket.FormatTicketID(id),
		ScanCount: entry.Metadata.ScanCount,
		ScannedAt: entry.Metadata.LastScanDate,
	}
	if err := log.Append(ctx, event); err != nil {
		return err
	}
	slog.Debug("scan event recorded", "ticket", event.TicketID, "count", event.ScanCount)
	return nil
}
