package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAssigneeNotFound   = errors.New("assignee not found")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidVisibility  = errors.New("invalid visibility")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrTeamFull           = errors.New("team is full")
	ErrLastMember         = errors.New("cannot remove the last team member")
	ErrAlreadyMember      = errors.New("user is already a team member")
	ErrNotMember          = errors.New("user is not a team member")
	ErrRejected           = errors.New("request rejected by server")
	ErrServer             = errors.New("server error")
	ErrTransport          = errors.New("network error")
	ErrNotLoggedIn        = errors.New("not logged in (run 'taskdesk login' first)")
	ErrSessionExpired     = errors.New("session expired (run 'taskdesk login' again)")
	ErrEmptyFile          = errors.New("file is empty")
	ErrNoTasksInFile      = errors.New("no tasks found in file")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrConfigExists       = errors.New("config file already exists")
	ErrInvalidSchedule    = errors.New("invalid watch schedule")
	ErrValidation         = errors.New("validation failed")
	ErrOverlayNotOpen     = errors.New("task overlay is not open")
	ErrMissingBaseURL     = errors.New("api base_url is not configured")
	ErrUnexpectedResponse = errors.New("unexpected response from server")
)
