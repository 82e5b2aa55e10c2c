package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairgate/fairgate/internal/ticket"
)

// RemoveOptions holds flags for the remove command.
type RemoveOptions struct {
	*RootOptions
	Force bool
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remove <ticket-id>",
		Short: "Remove a ticket from the registry",
		Long: `Remove the ticket with the given base-36 ID.

A corrupted entry blocks a normal remove; --force drops the entry without
reading its fields, which is the only way to get rid of it.`,
		Aliases: []string{"rem"},
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

			out := formatter(opts.RootOptions, cmd.OutOrStdout())

			if opts.Force {
				if err := table.Discard(id); err != nil {
					return WrapExitError(ExitFailure, "cannot remove ticket", err)
				}
				if err := saveRegistry(opts.RootOptions, table); err != nil {
					return err
				}
				return out.Success(fmt.Sprintf("Ticket %s discarded.", ticket.FormatTicketID(id)))
			}

			entry, err := table.Get(id)
			if err != nil {
				if ticket.IsCode(err, ticket.CodeCorruptedEntry) {
					return WrapExitError(ExitFailure,
						"entry is corrupted; use --force to discard it", err)
				}
				return WrapExitError(ExitFailure, "cannot remove ticket", err)
			}
			removed := newTicketView(id, entry)

			if err := table.Remove(id); err != nil {
				return WrapExitError(ExitFailure, "cannot remove ticket", err)
			}
			if err := saveRegistry(opts.RootOptions, table); err != nil {
				return err
			}
			return out.Success(removed)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "discard the entry without reading its fields")

	return cmd
}
