package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdesk/internal/app"
	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/usecase"
)

// newUserCommand creates the user command group.
func newUserCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(
		newUserListCommand(c),
		newUserNewCommand(c),
		newUserEditCommand(c),
		newUserRmCommand(c),
	)
	return cmd
}

func addUserFormFlags(cmd *cobra.Command, form *domain.UserForm) {
	f := cmd.Flags()
	f.StringVarP(&form.Username, "username", "u", "", "Username")
	f.StringVar(&form.Name, "name", "", "Display name")
	f.StringVar(&form.Email, "email", "", "Email address")
}

// newUserListCommand creates the user list subcommand.
func newUserListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListUsersUseCase().Execute(cmd.Context(), usecase.ListUsersInput{})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tEMAIL")
			for _, u := range out.Users {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Key(), u.Username, orDash(u.Name), orDash(u.Email))
			}
			return tw.Flush()
		},
	}
}

// newUserNewCommand creates the user new subcommand.
func newUserNewCommand(c *app.Container) *cobra.Command {
	var form domain.UserForm

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CreateUserUseCase().Execute(cmd.Context(), usecase.CreateUserInput{Form: form})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", out.User.Username, out.User.Key())
			return nil
		},
	}

	addUserFormFlags(cmd, &form)
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password")

	return cmd
}

// newUserEditCommand creates the user edit subcommand.
func newUserEditCommand(c *app.Container) *cobra.Command {
	var form domain.UserForm

	cmd := &cobra.Command{
		Use:   "edit <user-id>",
		Short: "Edit a user",
		Long: `Edit a user. Only the given flags change; an omitted password keeps the current one.

Examples:
  taskdesk user edit 3f2a... --email alice@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.EditUserUseCase().Execute(cmd.Context(), usecase.EditUserInput{
				UserID:   args[0],
				Username: stringFlag(cmd, "username", form.Username),
				Name:     stringFlag(cmd, "name", form.Name),
				Email:    stringFlag(cmd, "email", form.Email),
				Password: stringFlag(cmd, "password", form.Password),
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated user %s (%s)\n", out.User.Username, out.User.Key())
			return nil
		},
	}

	addUserFormFlags(cmd, &form)
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "New password")

	return cmd
}

// newUserRmCommand creates the user rm subcommand.
func newUserRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.DeleteUserUseCase().Execute(cmd.Context(), usecase.DeleteUserInput{UserID: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return nil
		},
	}
}
