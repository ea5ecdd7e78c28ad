package tui

import (
	"github.com/runoshun/taskdesk/internal/board"
	"github.com/runoshun/taskdesk/internal/domain"
)

// Msg is the sealed interface for all TUI messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgBoardLoaded is sent when a full reload finishes.
type MsgBoardLoaded struct {
	Err    error
	Viewer domain.Viewer
}

func (MsgBoardLoaded) sealed() {}

// MsgStoreChanged is sent when the shared task cache changes.
type MsgStoreChanged struct{}

func (MsgStoreChanged) sealed() {}

// MsgDropSettled is sent when the remote priority change for a drop returns.
type MsgDropSettled struct {
	Outcome board.Outcome
}

func (MsgDropSettled) sealed() {}

// MsgOverlayLoaded is sent when the overlay's task and assignees arrive.
type MsgOverlayLoaded struct {
	Result board.LoadResult
}

func (MsgOverlayLoaded) sealed() {}

// MsgOverlayResult is sent when an overlay save, priority or visibility change returns.
type MsgOverlayResult struct {
	Result board.TaskResult
}

func (MsgOverlayResult) sealed() {}

// MsgRefreshTick triggers the periodic reload.
type MsgRefreshTick struct{}

func (MsgRefreshTick) sealed() {}
