package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdesk/internal/app"
	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/usecase"
)

// newTeamCommand creates the team command group.
func newTeamCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams and their members",
	}
	cmd.AddCommand(
		newTeamListCommand(c),
		newTeamNewCommand(c),
		newTeamRmCommand(c),
		newTeamAddMemberCommand(c),
		newTeamRmMemberCommand(c),
	)
	return cmd
}

// newTeamListCommand creates the team list subcommand.
func newTeamListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your teams with their members",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTeamsUseCase().Execute(cmd.Context(), usecase.ListTeamsInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Teams) == 0 {
				_, _ = fmt.Fprintln(w, "No teams")
				return nil
			}
			for i, r := range out.Teams {
				if i > 0 {
					_, _ = fmt.Fprintln(w)
				}
				printRoster(w, r)
			}
			return nil
		},
	}
}

func printRoster(w io.Writer, r domain.TeamRoster) {
	full := ""
	if r.IsFull() {
		full = " full"
	}
	_, _ = fmt.Fprintf(w, "#%d %s (%d/%d%s)\n", r.Team.ID, r.Team.TeamName, r.TotalMembers(), r.Team.Limit, full)
	for _, m := range r.Members {
		_, _ = fmt.Fprintf(w, "  %s %-16s %s\n", m.Capabilities, m.User.Username, m.User.Key())
	}
}

// newTeamNewCommand creates the team new subcommand.
func newTeamNewCommand(c *app.Container) *cobra.Command {
	var form domain.TeamForm

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a team with you as its first member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.TeamName = args[0]
			out, err := c.CreateTeamUseCase().Execute(cmd.Context(), usecase.CreateTeamInput{Form: form})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created team #%d: %s (limit %d)\n", out.Team.ID, out.Team.TeamName, out.Team.Limit)
			return nil
		},
	}

	cmd.Flags().IntVar(&form.Limit, "limit", 5, "Maximum number of members")

	return cmd
}

// newTeamRmCommand creates the team rm subcommand.
func newTeamRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <team-id>",
		Short: "Delete a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("team", args[0])
			if err != nil {
				return err
			}
			if _, err := c.DeleteTeamUseCase().Execute(cmd.Context(), usecase.DeleteTeamInput{TeamID: id}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted team #%d\n", id)
			return nil
		},
	}
}

// newTeamAddMemberCommand creates the team add-member subcommand.
func newTeamAddMemberCommand(c *app.Container) *cobra.Command {
	var caps string

	cmd := &cobra.Command{
		Use:   "add-member <team-id> <user-id>",
		Short: "Add a user to a team",
		Long: `Add a user to a team.

Fails without contacting the server when the team is already full or the
user is already a member.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("team", args[0])
			if err != nil {
				return err
			}
			c2, err := capabilities(caps)
			if err != nil {
				return err
			}
			out, err := c.AddTeamMemberUseCase().Execute(cmd.Context(), usecase.AddTeamMemberInput{
				TeamID:       id,
				UserID:       args[1],
				Capabilities: c2,
			})
			if err != nil {
				return err
			}
			printRoster(cmd.OutOrStdout(), out.Roster)
			return nil
		},
	}

	cmd.Flags().StringVar(&caps, "caps", "vce", "Capabilities (any of v, c, e)")

	return cmd
}

// newTeamRmMemberCommand creates the team rm-member subcommand.
func newTeamRmMemberCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-member <team-id> <user-id>",
		Short: "Remove a user from a team",
		Long: `Remove a user from a team.

The last member of a team cannot be removed; delete the team instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("team", args[0])
			if err != nil {
				return err
			}
			out, err := c.RemoveTeamMemberUseCase().Execute(cmd.Context(), usecase.RemoveTeamMemberInput{
				TeamID: id,
				UserID: args[1],
			})
			if err != nil {
				return err
			}
			printRoster(cmd.OutOrStdout(), out.Roster)
			return nil
		},
	}
}
