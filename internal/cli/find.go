package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fairgate/fairgate/internal/ticket"
)

// findResult is the output shape of the find command.
type findResult struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	TicketIDs []string `json:"ticket_ids"`
}

func (r findResult) String() string {
	if len(r.TicketIDs) == 0 {
		return fmt.Sprintf("No tickets found for %s %s.", r.FirstName, r.LastName)
	}
	return fmt.Sprintf("Tickets for %s %s: %s",
		r.FirstName, r.LastName, strings.Join(r.TicketIDs, ", "))
}

// NewFindCommand creates the find command.
func NewFindCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <first-name> <last-name>",
		Short: "Find ticket IDs by attendee name",
		Long: `Find every ticket issued to the given attendee.

Names are matched exactly against their stored canonical form, e.g.
"John" "O Doe".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := openRegistry(opts)
			if err != nil {
				return err
			}

			ids, err := table.FindByName(args[0], args[1])
			if err != nil {
				return WrapExitError(ExitFailure, "cannot search registry", err)
			}

			result := findResult{
				FirstName: args[0],
				LastName:  args[1],
				TicketIDs: make([]string, 0, len(ids)),
			}
			for _, id := range ids {
				result.TicketIDs = append(result.TicketIDs, ticket.FormatTicketID(id))
			}
			return formatter(opts, cmd.OutOrStdout()).Success(result)
		},
	}
}
