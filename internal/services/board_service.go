package services

import (
	"context"
	"errors"

	"github.com/yukikurage/taskboard-api/internal/authz"
	"github.com/yukikurage/taskboard-api/internal/board"
	"github.com/yukikurage/taskboard-api/internal/models"
	"go.uber.org/zap"
)

// BoardService applies drag-and-drop board snapshots.
type BoardService struct {
	engine *board.Engine
	log    *zap.Logger
}

func NewBoardService(engine *board.Engine, log *zap.Logger) *BoardService {
	return &BoardService{engine: engine, log: log}
}

// Reorder checks the caller's role and the snapshot, then writes every
// placement. A Result with failures means the board may be partly updated;
// resubmitting the same snapshot converges.
func (s *BoardService) Reorder(ctx context.Context, project *models.Project, callerID string, snapshot board.Snapshot) (board.Result, error) {
	if err := authorize(project, callerID, authz.OpReorderBoard); err != nil {
		return board.Result{}, err
	}

	placements, err := board.Plan(snapshot)
	if err != nil {
		var invalid *board.InvalidSnapshotError
		if errors.As(err, &invalid) {
			return board.Result{}, &ValidationError{Fields: invalid.Problems}
		}
		return board.Result{}, err
	}

	result := s.engine.Apply(ctx, project.ID, placements)
	if result.Partial() {
		s.log.Error("board reorder partially applied",
			zap.String("project_id", project.ID),
			zap.Int("applied", len(result.Applied)),
			zap.Int("failed", len(result.Failed)),
		)
	}
	return result, nil
}
