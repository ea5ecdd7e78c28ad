package usecase

import (
	"context"

	"github.com/runoshun/taskdesk/internal/domain"
	"github.com/runoshun/taskdesk/internal/store"
)

// loadViewer resolves who is looking at the board and records it in the store.
func loadViewer(ctx context.Context, repo *store.Repository, sessions domain.SessionStore, clock domain.Clock) (domain.Viewer, error) {
	s, err := viewerSession(sessions, clock)
	if err != nil {
		return domain.Viewer{}, err
	}
	return repo.LoadViewerAssignments(ctx, s.UserID())
}
