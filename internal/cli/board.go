package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdesk/internal/app"
	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/usecase"
)

// newBoardCommand creates the board command.
func newBoardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Print the board once",
		Long: `Print the three priority columns as seen by the current session.

Anonymous viewers see only Public tasks. Logged-in users additionally see
the Private tasks they are assigned to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowBoardUseCase().Execute(cmd.Context(), usecase.ShowBoardInput{})
			if err != nil {
				return err
			}
			printBoard(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// newWatchCommand creates the watch command.
func newWatchCommand(c *app.Container) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the board on a schedule",
		Long: `Reload and print the board now and then on a cron schedule until interrupted.

The schedule accepts standard five-field cron specs and descriptors such as
"@every 30s" or "@hourly". It defaults to [watch].schedule in the config.

Examples:
  taskdesk watch
  taskdesk watch --schedule "@every 1m"
  taskdesk watch --schedule "*/5 9-18 * * 1-5"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("schedule") && c.AppConfig != nil {
				schedule = c.AppConfig.Watch.Schedule
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			out, err := c.WatchUseCase().Execute(ctx, usecase.WatchInput{
				Schedule: schedule,
				OnTick: func(b *usecase.ShowBoardOutput, err error) {
					_, _ = fmt.Fprintf(w, "=== %s ===\n", time.Now().Format(time.TimeOnly))
					if err != nil {
						_, _ = fmt.Fprintf(w, "reload failed: %v\n\n", err)
						return
					}
					printBoard(w, b)
					_, _ = fmt.Fprintln(w)
				},
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Stopped after %d reloads\n", out.Ticks)
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", domain.DefaultWatchSchedule, "Cron spec for reloads")

	return cmd
}

func printBoard(w io.Writer, out *usecase.ShowBoardOutput) {
	who := "anonymous"
	if !out.Viewer.IsAnonymous() {
		who = out.Viewer.UserID()
	}
	_, _ = fmt.Fprintf(w, "Board for %s (%d tasks)\n", who, out.Board.Total())

	for _, col := range out.Board.Columns {
		_, _ = fmt.Fprintf(w, "\n%s (%d)\n", strings.ToUpper(col.Priority.Display()), col.Len())
		if col.Len() == 0 {
			_, _ = fmt.Fprintln(w, "  (empty)")
			continue
		}
		for _, t := range col.Tasks {
			line := fmt.Sprintf("  #%-4d %s", t.ID, t.Label())
			if !t.IsPublic() {
				line += " [private]"
			}
			if len(t.Tags) > 0 {
				line += " [" + strings.Join(t.Tags, ", ") + "]"
			}
			_, _ = fmt.Fprintln(w, line)
		}
	}
}
