package domain

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"
)

// DueDateLayout is the wire format of Task.DueDate.
const DueDateLayout = "2006-01-02"

// FieldErrors maps a form field name to its validation message.
// A non-empty FieldErrors is returned before any network call is made.
type FieldErrors map[string]string

// Error joins the messages in field order.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for field errors.
func (fe FieldErrors) Is(target error) bool {
	return target == ErrValidation
}

// Err returns nil if no field failed.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func (fe FieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		fe[field] = "required"
	}
}

// TaskForm holds user input for creating or editing a task.
// Fields are ordered to minimize memory padding.
type TaskForm struct {
	Tags           []string
	TaskID         string
	TaskName       string
	AskDescription string
	Priority       string
	Visibility     string
	Status         string
	DueDate        string
}

// FormFromTask fills a form with a task's current values.
func FormFromTask(t Task) TaskForm {
	return TaskForm{
		Tags:           NormalizeTags(t.Tags),
		TaskID:         t.TaskID,
		TaskName:       t.TaskName,
		AskDescription: t.AskDescription,
		Priority:       string(t.Priority),
		Visibility:     string(t.Visibility),
		Status:         t.Status,
		DueDate:        t.DueDate,
	}
}

// Validate checks the form and returns the resulting task.
// Empty priority and visibility default to Normal and Private.
func (f TaskForm) Validate() (Task, error) {
	fe := FieldErrors{}
	fe.required("task_id", f.TaskID)
	fe.required("task_name", f.TaskName)
	fe.required("ask_description", f.AskDescription)

	priority := PriorityNormal
	if strings.TrimSpace(f.Priority) != "" {
		p, err := ParsePriority(f.Priority)
		if err != nil {
			fe["priority"] = fmt.Sprintf("must be one of %s", joinPriorities())
		}
		priority = p
	}

	visibility := VisibilityPrivate
	if strings.TrimSpace(f.Visibility) != "" {
		v, err := ParseVisibility(f.Visibility)
		if err != nil {
			fe["visibility"] = "must be Public or Private"
		}
		visibility = v
	}

	due := strings.TrimSpace(f.DueDate)
	if due != "" {
		if _, err := time.Parse(DueDateLayout, due); err != nil {
			fe["due_date"] = "must be YYYY-MM-DD"
		}
	}

	if err := fe.Err(); err != nil {
		return Task{}, err
	}
	return Task{
		Tags:           NormalizeTags(f.Tags),
		TaskID:         strings.ToUpper(strings.TrimSpace(f.TaskID)),
		TaskName:       strings.TrimSpace(f.TaskName),
		AskDescription: f.AskDescription,
		Priority:       priority,
		Visibility:     visibility,
		Status:         strings.TrimSpace(f.Status),
		DueDate:        due,
	}, nil
}

func joinPriorities() string {
	all := Priorities()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// TeamForm holds user input for creating a team.
type TeamForm struct {
	TeamName string
	Limit    int
}

// Validate checks the form and returns the team to create.
func (f TeamForm) Validate() (Team, error) {
	fe := FieldErrors{}
	fe.required("team_name", f.TeamName)
	if f.Limit < 1 {
		fe["limit"] = "must be at least 1"
	}
	if err := fe.Err(); err != nil {
		return Team{}, err
	}
	return Team{TeamName: strings.TrimSpace(f.TeamName), Limit: f.Limit}, nil
}

// UserForm holds user input for creating, registering or editing a user.
// Fields are ordered to minimize memory padding.
type UserForm struct {
	Username string
	Name     string
	Email    string
	Password string

	// PasswordOptional is set when editing, where an empty password keeps the current one.
	PasswordOptional bool
}

// Validate checks the form and returns the user to submit.
func (f UserForm) Validate() (User, error) {
	fe := FieldErrors{}
	fe.required("username", f.Username)
	fe.required("name", f.Name)
	fe.required("email", f.Email)
	if !f.PasswordOptional {
		fe.required("password", f.Password)
	}
	if _, ok := fe["email"]; !ok && !IsValidEmail(f.Email) {
		fe["email"] = "invalid email address"
	}
	if err := fe.Err(); err != nil {
		return User{}, err
	}
	return User{
		Username: strings.TrimSpace(f.Username),
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}, nil
}

// IsValidEmail reports whether s is a bare address such as "a@b.io".
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at:], ".")
}

// LoginForm holds credentials.
type LoginForm struct {
	Username string
	Password string
}

// Validate checks that both credentials are present.
func (f LoginForm) Validate() error {
	fe := FieldErrors{}
	fe.required("username", f.Username)
	fe.required("password", f.Password)
	return fe.Err()
}

// AssignForm holds user input for assigning a user to a task.
type AssignForm struct {
	UserID       string
	TaskID       int
	TeamID       int
	Capabilities Capabilities
}

// Validate checks the form and returns the assignment to create.
func (f AssignForm) Validate() (Assignee, error) {
	fe := FieldErrors{}
	fe.required("user_id", f.UserID)
	if f.TaskID <= 0 {
		fe["task_id"] = "required"
	}
	if err := fe.Err(); err != nil {
		return Assignee{}, err
	}
	a := Assignee{
		UserID: strings.TrimSpace(f.UserID),
		TaskID: f.TaskID,
		TeamID: f.TeamID,
	}
	a.SetCapabilities(f.Capabilities)
	return a, nil
}
