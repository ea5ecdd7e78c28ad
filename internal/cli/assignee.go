package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdesk/internal/app"
	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/usecase"
)

// newAssigneeCommand creates the assignee command group.
func newAssigneeCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignee",
		Short: "Manage task assignments",
	}
	cmd.AddCommand(
		newAssigneeListCommand(c),
		newAssigneeAddCommand(c),
		newAssigneeRmCommand(c),
	)
	return cmd
}

// newAssigneeListCommand creates the assignee list subcommand.
func newAssigneeListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list <task-id>",
		Short: "List a task's assignees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			out, err := c.ListAssigneesUseCase().Execute(cmd.Context(), usecase.ListAssigneesInput{TaskID: id})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Assignees) == 0 {
				_, _ = fmt.Fprintln(w, "No assignees")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tUSER\tNAME\tTEAM\tCAPS")
			for _, a := range out.Assignees {
				team := "-"
				if a.TeamID != 0 {
					team = fmt.Sprint(a.TeamID)
				}
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.UserID, orDash(a.UserName), team, a.Capabilities())
			}
			return tw.Flush()
		},
	}
}

// newAssigneeAddCommand creates the assignee add subcommand.
func newAssigneeAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Caps   string
		TeamID int
	}

	cmd := &cobra.Command{
		Use:   "add <task-id> <user-id>",
		Short: "Assign a user to a task",
		Long: `Assign a user to a task.

Capabilities are given as letters: v (view), c (comment), e (edit).

Examples:
  taskdesk assignee add 12 3f2a...
  taskdesk assignee add 12 3f2a... --caps v --team 4`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			caps, err := capabilities(opts.Caps)
			if err != nil {
				return err
			}

			out, err := c.AssignUserUseCase().Execute(cmd.Context(), usecase.AssignUserInput{
				Form: domain.AssignForm{
					UserID:       args[1],
					TaskID:       id,
					TeamID:       opts.TeamID,
					Capabilities: caps,
				},
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to task #%d (%s)\n",
				orDash(out.Assignee.UserName), id, out.Assignee.Capabilities())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Caps, "caps", "vce", "Capabilities (any of v, c, e)")
	cmd.Flags().IntVar(&opts.TeamID, "team", 0, "Team context for the assignment")

	return cmd
}

// newAssigneeRmCommand creates the assignee rm subcommand.
func newAssigneeRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <assignee-id>",
		Short: "Remove an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("assignee", args[0])
			if err != nil {
				return err
			}
			if _, err := c.UnassignUserUseCase().Execute(cmd.Context(), usecase.UnassignUserInput{AssigneeID: id}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed assignment %d\n", id)
			return nil
		},
	}
}
