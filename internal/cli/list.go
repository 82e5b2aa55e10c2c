package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fairgate/fairgate/internal/ticket"
)

// rosterTicket is one line of the roster: a ticket ID and the attendee's
// "Last First" display name.
type rosterTicket struct {
	TicketID string `json:"ticket_id"`
	Name     string `json:"name"`
}

// rosterClass groups the tickets of one grade/category class.
type rosterClass struct {
	Grade    uint8          `json:"grade"`
	Category string         `json:"category"`
	Tickets  []rosterTicket `json:"tickets"`
}

// roster is the output shape of the list command.
type roster struct {
	Classes []rosterClass `json:"classes"`
	Total   int           `json:"total"`
}

func (r roster) String() string {
	var b strings.Builder
	for _, class := range r.Classes {
		fmt.Fprintf(&b, "Class %d%s (%d tickets):\n", class.Grade, class.Category, len(class.Tickets))
		for _, t := range class.Tickets {
			fmt.Fprintf(&b, "    %s: %s\n", t.TicketID, t.Name)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total tickets count: %d\n", r.Total)
	b.WriteString("----------------")
	for _, class := range r.Classes {
		fmt.Fprintf(&b, "\n%d%s: %d", class.Grade, class.Category, len(class.Tickets))
	}
	return b.String()
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the full ticket roster",
		Long: `Print every issued ticket, grouped by class in grade then category
order, with attendees sorted by name inside each class.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := openRegistry(opts)
			if err != nil {
				return err
			}

			result, err := buildRoster(table)
			if err != nil {
				return WrapExitError(ExitFailure, "cannot list registry", err)
			}
			return formatter(opts, cmd.OutOrStdout()).Success(result)
		},
	}
}

// buildRoster walks the table once and groups tickets by class. Classes with
// no tickets are omitted.
func buildRoster(table *ticket.Table) (roster, error) {
	type classKey struct {
		grade    uint8
		category byte
	}
	byClass := make(map[classKey][]rosterTicket)

	err := table.ForEach(func(id ticket.TicketID, entry *ticket.Entry) (ticket.IterationDecision, error) {
		key := classKey{grade: entry.Grade, category: entry.GradeCategory}
		byClass[key] = append(byClass[key], rosterTicket{
			TicketID: ticket.FormatTicketID(id),
			Name:     entry.LastName + " " + entry.FirstName,
		})
		return ticket.IterationContinue, nil
	})
	if err != nil {
		return roster{}, err
	}

	result := roster{Classes: []rosterClass{}}
	for grade := uint8(ticket.GradeMin); grade <= ticket.GradeMax; grade++ {
		for category := byte(ticket.GradeCategoryMin); category <= ticket.GradeCategoryMax; category++ {
			tickets := byClass[classKey{grade: grade, category: category}]
			if len(tickets) == 0 {
				continue
			}
			sort.Slice(tickets, func(i, j int) bool {
				return tickets[i].Name < tickets[j].Name
			})
			result.Classes = append(result.Classes, rosterClass{
				Grade:    grade,
				Category: string(category),
				Tickets:  tickets,
			})
			result.Total += len(tickets)
		}
	}
	return result, nil
}
