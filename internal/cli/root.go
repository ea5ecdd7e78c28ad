// Package cli provides the command-line interface for taskdesk.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskdesk/internal/app"
	"github.com/runoshun/taskdesk/internal/tui"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupBoard = "board"
	groupTeam  = "team"
)

// launchTUIFunc is a function variable for launching the board TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for taskdesk.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskdesk",
		Short: "Task board client for the taskdesk API",
		Long: `taskdesk is a terminal client for a remote task board.

Tasks live in three priority columns (High, Medium, Normal). Run without
arguments to open the interactive board; drag a card between columns to
change its priority.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests or serve-fake)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupBoard, Title: "Board and Tasks:"},
		&cobra.Group{ID: groupTeam, Title: "Teams and Users:"},
	)

	grouped := func(id string, cmds ...*cobra.Command) []*cobra.Command {
		for _, cmd := range cmds {
			cmd.GroupID = id
		}
		return cmds
	}

	root.AddCommand(grouped(groupSetup,
		newConfigCommand(c),
		newLoginCommand(c),
		newLogoutCommand(c),
		newRegisterCommand(c),
		newWhoamiCommand(c),
		newServeFakeCommand(),
	)...)
	root.AddCommand(grouped(groupBoard,
		newBoardCommand(c),
		newWatchCommand(c),
		newTaskCommand(c),
		newAssigneeCommand(c),
	)...)
	root.AddCommand(grouped(groupTeam,
		newTeamCommand(c),
		newUserCommand(c),
	)...)

	return root
}

// launchTUI runs the board until the user quits.
func launchTUI(c *app.Container) error {
	p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
