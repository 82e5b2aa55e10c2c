package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fairgate/fairgate/internal/ticket"
)

// NewEmitCommand creates the emit command.
func NewEmitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "emit <last-name> <first-name> <grade> <category>",
		Short: "Issue a new ticket with a generated ID",
		Long: `Issue a new ticket for an attendee.

A fresh five-character base-36 ticket ID is generated, the attendee fields
are validated and canonicalized, and the registry is written back.

Example:
  fairgate --registry event.yaml emit doe john 10 B`,
		Aliases: []string{"e"},
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := parseEntryArgs(args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}

			table, err := openRegistry(opts)
			if err != nil {
				return err
			}

			id, err := table.Insert(entry)
			if err != nil {
				return WrapExitError(ExitFailure, "cannot emit ticket", err)
			}
			inserted, err := table.Get(id)
			if err != nil {
				return WrapExitError(ExitFailure, "cannot emit ticket", err)
			}
			slog.Debug("ticket emitted", "id", ticket.FormatTicketID(id))

			if err := saveRegistry(opts, table); err != nil {
				return err
			}
			return formatter(opts, cmd.OutOrStdout()).Success(newTicketView(id, inserted))
		},
	}
}
