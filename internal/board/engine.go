package board

import (
	"context"
	"errors"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PlacementWriter is the single-task update the engine relies on.
type PlacementWriter interface {
	UpdateTaskPlacement(ctx context.Context, projectID, taskID string, stage models.Stage, order int) error
}

// Failure is a placement whose write returned an error.
type Failure struct {
	Placement
	Error string `json:"error"`
}

// Result reports what happened to each placement of one Apply call.
type Result struct {
	Applied []Placement `json:"applied"`
	Skipped []string    `json:"skipped"`
	Failed  []Failure   `json:"failed"`
}

// Partial reports whether some writes failed, leaving the board between the
// old and the requested arrangement. Resubmitting the same snapshot repairs it.
func (r Result) Partial() bool {
	return len(r.Failed) > 0
}

// Engine applies placements with one independent write per task. There is no
// enclosing transaction: concurrent Apply calls on one project can interleave.
type Engine struct {
	store  PlacementWriter
	log    *zap.Logger
	tracer trace.Tracer
}

func NewEngine(store PlacementWriter, log *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		log:    log,
		tracer: otel.Tracer("github.com/yukikurage/taskboard-api/internal/board"),
	}
}

// Apply writes every placement, continuing past failures so a single bad
// write does not strand the rest of the board. Placements for tasks that no
// longer exist in the project are skipped.
func (e *Engine) Apply(ctx context.Context, projectID string, placements []Placement) Result {
	ctx, span := e.tracer.Start(ctx, "board.Apply", trace.WithAttributes(
		attribute.String("project.id", projectID),
		attribute.Int("board.placements", len(placements)),
	))
	defer span.End()

	result := Result{
		Applied: make([]Placement, 0, len(placements)),
		Skipped: []string{},
		Failed:  []Failure{},
	}

	for _, p := range placements {
		err := e.write(ctx, projectID, p)
		switch {
		case err == nil:
			result.Applied = append(result.Applied, p)
		case errors.Is(err, repository.ErrNotFound):
			result.Skipped = append(result.Skipped, p.TaskID)
		default:
			e.log.Warn("task placement update failed",
				zap.String("project_id", projectID),
				zap.String("task_id", p.TaskID),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, Failure{Placement: p, Error: err.Error()})
		}
	}

	span.SetAttributes(
		attribute.Int("board.applied", len(result.Applied)),
		attribute.Int("board.skipped", len(result.Skipped)),
		attribute.Int("board.failed", len(result.Failed)),
	)
	if result.Partial() {
		span.SetStatus(codes.Error, "partial reorder")
	}
	return result
}

func (e *Engine) write(ctx context.Context, projectID string, p Placement) error {
	ctx, span := e.tracer.Start(ctx, "board.UpdateTaskPlacement", trace.WithAttributes(
		attribute.String("task.id", p.TaskID),
		attribute.String("task.stage", string(p.Stage)),
		attribute.Int("task.order", p.Order),
	))
	defer span.End()

	err := e.store.UpdateTaskPlacement(ctx, projectID, p.TaskID, p.Stage, p.Order)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
