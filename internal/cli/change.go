package cli

import (
	"github.com/spf13/cobra"
)

// NewChangeCommand creates the change command.
func NewChangeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "change <ticket-id> <last-name> <first-name> <grade> <category>",
		Short: "Replace the details of an issued ticket",
		Long: `Replace every attendee field of the ticket with the given ID.

The replacement is validated and duplicate-checked exactly like a new
insertion; the ticket keeps its ID.`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketArg(args[0])
			if err != nil {
				return err
			}
			replacement, err := parseEntryArgs(args[1], args[2], args[3], args[4])
			if err != nil {
				return err
			}

			table, err := openRegistry(opts)
			if err != nil {
				return err
			}

			if err := table.UpdateEntry(id, replacement); err != nil {
				return WrapExitError(ExitFailure, "cannot change ticket", err)
			}
			updated, err := table.Get(id)
			if err != nil {
				return WrapExitError(ExitFailure, "cannot change ticket", err)
			}

			if err := saveRegistry(opts, table); err != nil {
				return err
			}
			return formatter(opts, cmd.OutOrStdout()).Success(newTicketView(id, updated))
		},
	}
}
