package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdesk/internal/domain"
)

// parseID parses a numeric id argument.
func parseID(what, arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %q", what, arg)
	}
	return id, nil
}

// stringFlag returns a pointer to value when the flag was set on the command line.
func stringFlag(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// readLine prompts on w and reads one trimmed line from r.
func readLine(r io.Reader, w io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(w, prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// capabilities parses a "vce" style flag value; "-" or "none" grants nothing.
func capabilities(s string) (domain.Capabilities, error) {
	var c domain.Capabilities
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		return c, nil
	}
	for _, r := range s {
		switch r {
		case 'v':
			c.View = true
		case 'c':
			c.Comment = true
		case 'e':
			c.Edit = true
		case '-':
		default:
			return c, fmt.Errorf("invalid capability %q (use any of v, c, e)", string(r))
		}
	}
	return c, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
