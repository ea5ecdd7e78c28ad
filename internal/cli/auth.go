package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdesk/internal/app"
	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/usecase"
)

// newLoginCommand creates the login command.
func newLoginCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Username string
		Password string
	}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Long: `Log in to the API and save the session token.

The password is read from standard input when --password is not given.

Examples:
  taskdesk login -u alice
  echo "$PW" | taskdesk login -u alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := opts.Password
			if password == "" {
				var err error
				password, err = readLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
			}

			out, err := c.LoginUseCase().Execute(cmd.Context(), usecase.LoginInput{
				Username: opts.Username,
				Password: password,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Logged in as %s\n", out.Session.Username)
			if !out.ExpiresAt.IsZero() {
				_, _ = fmt.Fprintf(w, "Session expires %s\n", out.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Password (read from stdin if omitted)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// newLogoutCommand creates the logout command.
func newLogoutCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.LogoutUseCase().Execute(cmd.Context(), usecase.LogoutInput{})
			if err != nil {
				return err
			}
			if !out.WasLoggedIn {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged out %s\n", out.Username)
			return nil
		},
	}
}

// newRegisterCommand creates the register command.
func newRegisterCommand(c *app.Container) *cobra.Command {
	var form domain.UserForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.Password == "" {
				var err error
				form.Password, err = readLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
			}
			out, err := c.RegisterUseCase().Execute(cmd.Context(), usecase.RegisterInput{Form: form})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", out.User.Username, out.User.Key())
			return nil
		},
	}

	addUserFormFlags(cmd, &form)
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password (read from stdin if omitted)")

	return cmd
}

// newWhoamiCommand creates the whoami command.
func newWhoamiCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.WhoamiUseCase().Execute(cmd.Context(), usecase.WhoamiInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "User:    %s\n", out.Session.Username)
			_, _ = fmt.Fprintf(w, "ID:      %s\n", out.Session.UUID)
			if out.User != nil {
				_, _ = fmt.Fprintf(w, "Name:    %s\n", orDash(out.User.Name))
				_, _ = fmt.Fprintf(w, "Email:   %s\n", orDash(out.User.Email))
			}
			switch {
			case out.Expired:
				_, _ = fmt.Fprintln(w, "Session: expired (run 'taskdesk login' again)")
			case !out.ExpiresAt.IsZero():
				_, _ = fmt.Fprintf(w, "Session: valid until %s\n", out.ExpiresAt.Local().Format(time.RFC1123))
			default:
				_, _ = fmt.Fprintln(w, "Session: valid")
			}
			return nil
		},
	}
}
