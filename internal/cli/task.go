package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdesk/internal/app"
	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/usecase"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskListCommand(c),
		newTaskShowCommand(c),
		newTaskNewCommand(c),
		newTaskImportCommand(c),
		newTaskEditCommand(c),
		newTaskMoveCommand(c),
		newTaskVisibilityCommand(c),
		newTaskRmCommand(c),
		newTaskTagsCommand(c),
	)

	return cmd
}

// newTaskListCommand creates the task list subcommand.
func newTaskListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Priority string
		Tag      string
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List visible tasks",
		Long: `List the tasks the current session may see, in board order.

Examples:
  taskdesk task list
  taskdesk task list --priority High
  taskdesk task list --tag ops`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.ListTasksInput{Tag: opts.Tag}
			if opts.Priority != "" {
				p, err := domain.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				in.Priority = p
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			printTaskTable(cmd.OutOrStdout(), out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Priority, "priority", "P", "", "Only this column (High, Medium, Normal)")
	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", "", "Only tasks with this tag")

	return cmd
}

func printTaskTable(w io.Writer, tasks []domain.Task) {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCODE\tPRIORITY\tVISIBILITY\tSTATUS\tDUE\tNAME\tTAGS")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, orDash(t.TaskID), t.Priority.Display(), t.Visibility,
			orDash(t.Status), orDash(t.DueDate), t.TaskName, strings.Join(t.Tags, ","))
	}
	_ = tw.Flush()
}

// newTaskShowCommand creates the task show subcommand.
func newTaskShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			printTaskDetail(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printTaskDetail(w io.Writer, out *usecase.ShowTaskOutput) {
	t := out.Task
	_, _ = fmt.Fprintf(w, "#%d %s\n\n", t.ID, t.Label())
	_, _ = fmt.Fprintf(w, "Priority:   %s\n", t.Priority.Display())
	_, _ = fmt.Fprintf(w, "Visibility: %s\n", t.Visibility)
	_, _ = fmt.Fprintf(w, "Status:     %s\n", orDash(t.Status))
	_, _ = fmt.Fprintf(w, "Due:        %s\n", orDash(t.DueDate))
	_, _ = fmt.Fprintf(w, "Tags:       %s\n", orDash(strings.Join(t.Tags, ", ")))

	_, _ = fmt.Fprintln(w, "\nDescription:")
	for _, line := range strings.Split(strings.TrimRight(t.AskDescription, "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "  %s\n", line)
	}

	_, _ = fmt.Fprintln(w, "\nAssignees:")
	if len(out.Assignees) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
		return
	}
	for _, a := range out.Assignees {
		_, _ = fmt.Fprintf(w, "  %-4d %s %s\n", a.ID, a.Capabilities(), orDash(a.UserName))
	}
}

// newTaskNewCommand creates the task new subcommand.
func newTaskNewCommand(c *app.Container) *cobra.Command {
	var (
		opts domain.TaskForm
		tags []string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a task",
		Long: `Create a task.

Examples:
  taskdesk task new --code WEB-7 --name "Fix login" --desc "Users get a 500" --priority High
  taskdesk task new --code WEB-12 --name "Docs" --desc "Write them" --tag docs --visibility Private`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := opts
			form.Tags = domain.NormalizeTags(tags)

			out, err := c.CreateTaskUseCase().Execute(cmd.Context(), usecase.CreateTaskInput{Form: form})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d: %s\n", out.Task.ID, out.Task.Label())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.TaskID, "code", "", "Task code, upper-cased (required, e.g. WEB-12)")
	f.StringVarP(&opts.TaskName, "name", "n", "", "Task name (required)")
	f.StringVarP(&opts.AskDescription, "desc", "d", "", "Description (required)")
	f.StringVarP(&opts.Priority, "priority", "P", string(domain.PriorityNormal), "Priority (High, Medium, Normal)")
	f.StringVar(&opts.Visibility, "visibility", string(domain.VisibilityPublic), "Visibility (Public, Private)")
	f.StringVar(&opts.Status, "status", "", "Status")
	f.StringVar(&opts.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	f.StringSliceVarP(&tags, "tag", "t", nil, "Tag (repeatable or comma separated)")

	return cmd
}

// newTaskImportCommand creates the task import subcommand.
func newTaskImportCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create tasks from a Markdown file",
		Long: `Create tasks from a Markdown file with one or more YAML frontmatter blocks.

Each block's body becomes the description. Every block is validated before
any task is created. Use "-" to read from standard input.

File format:
  ---
  task_id: WEB-7
  task_name: Fix login
  priority: High
  tags: [auth, web]
  ---
  Users get a 500 after submitting the form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			out, err := c.ImportTasksUseCase().Execute(cmd.Context(), usecase.ImportTasksInput{
				Content: content,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			verb := "Created"
			if dryRun {
				verb = "Would create"
			}
			for _, t := range out.Tasks {
				if dryRun {
					_, _ = fmt.Fprintf(w, "%s %s (%s)\n", verb, t.Label(), t.Priority.Display())
					continue
				}
				_, _ = fmt.Fprintf(w, "%s task #%d: %s\n", verb, t.ID, t.Label())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without creating tasks")

	return cmd
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// newTaskEditCommand creates the task edit subcommand.
func newTaskEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Code        string
		Name        string
		Description string
		Status      string
		Due         string
		Tags        []string
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task's fields.

Without field flags the task opens in $EDITOR as Markdown with YAML
frontmatter; saving the file applies every field. Priority and visibility
have their own commands (task move, task visibility).

Examples:
  taskdesk task edit 12
  taskdesk task edit 12 --status doing --due 2026-11-01
  taskdesk task edit 12 --tag ui --tag web`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}

			in := usecase.EditTaskInput{
				TaskID:      id,
				TaskCode:    stringFlag(cmd, "code", opts.Code),
				Name:        stringFlag(cmd, "name", opts.Name),
				Description: stringFlag(cmd, "desc", opts.Description),
				Status:      stringFlag(cmd, "status", opts.Status),
				DueDate:     stringFlag(cmd, "due", opts.Due),
			}
			if cmd.Flags().Changed("tag") {
				tags := domain.NormalizeTags(opts.Tags)
				in.Tags = &tags
			}

			if !in.HasFieldChanges() {
				text, err := editInEditor(cmd, c, id)
				if err != nil {
					return err
				}
				in.EditorEdit = true
				in.EditorText = text
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d: %s\n", out.Task.ID, out.Task.Label())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Code, "code", "", "New task code")
	f.StringVarP(&opts.Name, "name", "n", "", "New name")
	f.StringVarP(&opts.Description, "desc", "d", "", "New description")
	f.StringVar(&opts.Status, "status", "", "New status")
	f.StringVar(&opts.Due, "due", "", "New due date (YYYY-MM-DD, empty clears)")
	f.StringSliceVarP(&opts.Tags, "tag", "t", nil, "Replace tags (repeatable or comma separated)")

	return cmd
}

// editInEditor renders the task to a temp file, opens the editor and returns the saved text.
func editInEditor(cmd *cobra.Command, c *app.Container, id int) (string, error) {
	current, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: id})
	if err != nil {
		return "", err
	}
	text, err := domain.RenderTaskMarkdown(current.Task)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "taskdesk-edit-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, fmt.Sprintf("task-%d.md", id))
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := openEditorFunc(path); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	if strings.TrimSpace(string(edited)) == "" {
		return "", domain.ErrEmptyFile
	}
	return string(edited), nil
}

// newTaskMoveCommand creates the task move subcommand.
func newTaskMoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <priority>",
		Short: "Move a task to another priority column",
		Long: `Move a task to the High, Medium or Normal column.

The local board updates first and rolls back if the server rejects the change.

Examples:
  taskdesk task move 12 High`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			p, err := domain.ParsePriority(args[1])
			if err != nil {
				return err
			}

			out, err := c.MoveTaskUseCase().Execute(cmd.Context(), usecase.MoveTaskInput{TaskID: id, Priority: p})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !out.Changed {
				_, _ = fmt.Fprintf(w, "Task #%d is already %s\n", id, p.Display())
				return nil
			}
			_, _ = fmt.Fprintf(w, "Moved task #%d: %s -> %s\n", id, out.From.Display(), out.Task.Priority.Display())
			return nil
		},
	}
}

// newTaskVisibilityCommand creates the task visibility subcommand.
func newTaskVisibilityCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "visibility <id> [Public|Private]",
		Short: "Set or toggle a task's visibility",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			in := usecase.SetVisibilityInput{TaskID: id}
			if len(args) == 2 {
				in.Visibility, err = domain.ParseVisibility(args[1])
				if err != nil {
					return err
				}
			}

			out, err := c.SetVisibilityUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			if !out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is already %s\n", id, out.Task.Visibility)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is now %s\n", id, out.Task.Visibility)
			return nil
		},
	}
}

// newTaskRmCommand creates the task rm subcommand.
func newTaskRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			if _, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: id}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
			return nil
		},
	}
}

// newTaskTagsCommand creates the task tags subcommand.
func newTaskTagsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <id>",
		Short: "Print a task's tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			out, err := c.GetTagsUseCase().Execute(cmd.Context(), usecase.GetTagsInput{TaskID: id})
			if err != nil {
				return err
			}
			for _, tag := range out.Tags {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}
