package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fairgate/fairgate/internal/snapshot"
	"github.com/fairgate/fairgate/internal/ticket"
)

// NewCreateCommand creates the create command.
func NewCreateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new empty registry file",
		Long: `Create a new empty ticket registry at the --registry path.

Fails if the file already exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Registry == "" {
				return NewExitError(ExitCommandError, "no registry file given; use --registry")
			}
			if _, err := os.Stat(opts.Registry); err == nil {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("registry %q already exists", opts.Registry))
			}

			table := ticket.NewTable()
			if err := snapshot.SaveFile(table, opts.Registry); err != nil {
				return WrapExitError(ExitCommandError, "cannot create registry", err)
			}

			return formatter(opts, cmd.OutOrStdout()).Success(
				fmt.Sprintf("Created empty registry %q.", opts.Registry))
		},
	}
}
