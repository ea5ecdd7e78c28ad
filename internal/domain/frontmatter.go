package domain

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// taskFrontmatter is the YAML header of a task Markdown document.
// The body after the header is the description.
type taskFrontmatter struct {
	TaskID     string   `yaml:"task_id"`
	TaskName   string   `yaml:"task_name"`
	Priority   string   `yaml:"priority,omitempty"`
	Visibility string   `yaml:"visibility,omitempty"`
	Status     string   `yaml:"status,omitempty"`
	DueDate    string   `yaml:"due_date,omitempty"`
	Tags       tagValue `yaml:"tags,omitempty"`
}

// tagValue accepts either a YAML sequence or a comma separated scalar.
type tagValue []string

func (tv *tagValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*tv = SplitTags(node.Value)
		return nil
	case yaml.SequenceNode:
		var tags []string
		if err := node.Decode(&tags); err != nil {
			return err
		}
		*tv = NormalizeTags(tags)
		return nil
	default:
		return fmt.Errorf("line %d: tags must be a list or a comma separated string", node.Line)
	}
}

// frontmatterKeys start a new task block when they follow a "---" line.
var frontmatterKeys = []string{
	"task_id:", "task_name:", "priority:", "visibility:", "status:", "due_date:", "tags:",
}

// RenderTaskMarkdown renders a task as a frontmatter Markdown document
// suitable for editing in $EDITOR.
func RenderTaskMarkdown(t Task) (string, error) {
	fm := taskFrontmatter{
		TaskID:     t.TaskID,
		TaskName:   t.TaskName,
		Priority:   string(t.Priority),
		Visibility: string(t.Visibility),
		Status:     t.Status,
		DueDate:    t.DueDate,
		Tags:       tagValue(t.Tags),
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelim + "\n")
	sb.Write(buf.Bytes())
	sb.WriteString(frontmatterDelim + "\n")
	if t.AskDescription != "" {
		sb.WriteString(t.AskDescription)
		if !strings.HasSuffix(t.AskDescription, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// ParseTaskMarkdown parses a single task document.
func ParseTaskMarkdown(content string) (TaskForm, error) {
	forms, err := ParseTaskForms(content)
	if err != nil {
		return TaskForm{}, err
	}
	if len(forms) > 1 {
		return TaskForm{}, fmt.Errorf("expected one task, found %d", len(forms))
	}
	return forms[0], nil
}

// ParseTaskForms parses a Markdown file containing one or more tasks.
// Each task is a YAML frontmatter block followed by its description:
//
//	---
//	task_id: web-1
//	task_name: Fix login
//	priority: High
//	tags: [auth, bug]
//	---
//	Login fails when the session expired.
//
// A "---" line inside a description only starts a new task when the next
// line is a frontmatter key.
func ParseTaskForms(content string) ([]TaskForm, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyFile
	}

	blocks := splitTaskBlocks(content)
	if len(blocks) == 0 {
		return nil, ErrNoTasksInFile
	}

	forms := make([]TaskForm, 0, len(blocks))
	for i, block := range blocks {
		form, err := parseTaskBlock(block)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		forms = append(forms, form)
	}
	return forms, nil
}

type taskBlock struct {
	header []string
	body   []string
}

func splitTaskBlocks(content string) []taskBlock {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var blocks []taskBlock
	var cur *taskBlock
	inHeader := false

	for i, line := range lines {
		if strings.TrimRight(line, " \t") == frontmatterDelim {
			switch {
			case cur == nil:
				cur = &taskBlock{}
				inHeader = true
			case inHeader:
				inHeader = false
			case i+1 < len(lines) && isFrontmatterKey(lines[i+1]):
				blocks = append(blocks, *cur)
				cur = &taskBlock{}
				inHeader = true
			default:
				cur.body = append(cur.body, line)
			}
			continue
		}
		if cur == nil {
			continue
		}
		if inHeader {
			cur.header = append(cur.header, line)
		} else {
			cur.body = append(cur.body, line)
		}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks
}

func isFrontmatterKey(line string) bool {
	for _, key := range frontmatterKeys {
		if strings.HasPrefix(line, key) {
			return true
		}
	}
	return false
}

func parseTaskBlock(b taskBlock) (TaskForm, error) {
	var fm taskFrontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(b.header, "\n")), &fm); err != nil {
		return TaskForm{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	return TaskForm{
		Tags:           []string(fm.Tags),
		TaskID:         fm.TaskID,
		TaskName:       fm.TaskName,
		AskDescription: strings.Trim(strings.Join(b.body, "\n"), "\n"),
		Priority:       fm.Priority,
		Visibility:     fm.Visibility,
		Status:         fm.Status,
		DueDate:        fm.DueDate,
	}, nil
}
