package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// ShowBoardInput is empty.
type ShowBoardInput struct{}

// ShowBoardOutput contains the projected board.
type ShowBoardOutput struct {
	Viewer domain.Viewer
	Board  domain.Board
}

// ShowBoard loads every task and projects the columns for the current viewer.
type ShowBoard struct {
	repo     *store.Repository
	sessions domain.SessionStore
	clock    domain.Clock
}

// NewShowBoard creates a new ShowBoard use case.
func NewShowBoard(repo *store.Repository, sessions domain.SessionStore, clock domain.Clock) *ShowBoard {
	return &ShowBoard{repo: repo, sessions: sessions, clock: clock}
}

// Execute reloads the cache and returns the board.
func (uc *ShowBoard) Execute(ctx context.Context, _ ShowBoardInput) (*ShowBoardOutput, error) {
	viewer, err := loadViewer(ctx, uc.repo, uc.sessions, uc.clock)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repo.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	return &ShowBoardOutput{Viewer: viewer, Board: uc.repo.Store().Board()}, nil
}
