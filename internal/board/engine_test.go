package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeWriter struct {
	fail  map[string]error
	calls []Placement
}

func (f *fakeWriter) UpdateTaskPlacement(_ context.Context, _, taskID string, stage models.Stage, order int) error {
	f.calls = append(f.calls, Placement{TaskID: taskID, Stage: stage, Order: order})
	return f.fail[taskID]
}

func TestEngine_ApplyReportsEachOutcome(t *testing.T) {
	writer := &fakeWriter{fail: map[string]error{
		"gone":   repository.ErrNotFound,
		"broken": errors.New("connection reset"),
	}}
	engine := NewEngine(writer, zap.NewNop())

	result := engine.Apply(context.Background(), "p1", []Placement{
		{TaskID: "a", Stage: models.StageTodo, Order: 0},
		{TaskID: "gone", Stage: models.StageTodo, Order: 1},
		{TaskID: "broken", Stage: models.StageDone, Order: 0},
		{TaskID: "b", Stage: models.StageDone, Order: 1},
	})

	assert.Len(t, writer.calls, 4, "a failed write must not stop later writes")
	assert.Equal(t, []string{"a", "b"}, []string{result.Applied[0].TaskID, result.Applied[1].TaskID})
	assert.Equal(t, []string{"gone"}, result.Skipped)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "broken", result.Failed[0].TaskID)
	assert.Equal(t, "connection reset", result.Failed[0].Error)
	assert.True(t, result.Partial())
}

func TestEngine_ApplyNothing(t *testing.T) {
	result := NewEngine(&fakeWriter{}, zap.NewNop()).Apply(context.Background(), "p1", nil)

	assert.False(t, result.Partial())
	assert.Empty(t, result.Applied)
	assert.NotNil(t, result.Skipped)
	assert.NotNil(t, result.Failed)
}

func setupBoard(t *testing.T) (repository.ProjectRepository, *models.Project) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	repo := repository.NewProjectRepository(db)
	ctx := context.Background()

	project := &models.Project{
		Title:   "Board",
		Members: []models.ProjectMember{{UserID: "u1", Role: models.RoleOwner}},
	}
	require.NoError(t, repo.Create(ctx, project))
	for i, title := range []string{"t0", "t1", "t2"} {
		require.NoError(t, repo.AddTask(ctx, project.ID, &models.Task{
			ID:    title,
			Title: title,
			Stage: models.StageRequested,
			Order: i,
			Index: i + 1,
		}))
	}
	return repo, project
}

func loadTasks(t *testing.T, repo repository.ProjectRepository, projectID string) map[string]models.Task {
	t.Helper()

	project, err := repo.FindByID(context.Background(), projectID)
	require.NoError(t, err)

	tasks := map[string]models.Task{}
	for _, task := range project.Tasks {
		tasks[task.ID] = task
	}
	return tasks
}

func TestEngine_ApplyAgainstStore(t *testing.T) {
	repo, project := setupBoard(t)
	engine := NewEngine(repo, zap.NewNop())
	ctx := context.Background()

	placements, err := Plan(Snapshot{
		{Name: "Requested", TaskIDs: []string{"t2"}},
		{Name: "In Progress", TaskIDs: []string{"t0", "missing"}},
	})
	require.NoError(t, err)

	result := engine.Apply(ctx, project.ID, placements)
	assert.False(t, result.Partial())
	assert.Equal(t, []string{"missing"}, result.Skipped)

	tasks := loadTasks(t, repo, project.ID)
	assert.Equal(t, models.StageRequested, tasks["t2"].Stage)
	assert.Equal(t, 0, tasks["t2"].Order)
	assert.Equal(t, models.StageInProgress, tasks["t0"].Stage)
	assert.Equal(t, 0, tasks["t0"].Order)

	// t1 was not listed and keeps its placement.
	assert.Equal(t, models.StageRequested, tasks["t1"].Stage)
	assert.Equal(t, 1, tasks["t1"].Order)

	// Indexes never move.
	assert.Equal(t, 1, tasks["t0"].Index)
	assert.Equal(t, 3, tasks["t2"].Index)
}

func TestEngine_ApplyIsIdempotent(t *testing.T) {
	repo, project := setupBoard(t)
	engine := NewEngine(repo, zap.NewNop())
	ctx := context.Background()

	placements, err := Plan(Snapshot{
		{Name: "To do", TaskIDs: []string{"t1", "t0"}},
		{Name: "Done", TaskIDs: []string{"t2"}},
	})
	require.NoError(t, err)

	engine.Apply(ctx, project.ID, placements)
	first := loadTasks(t, repo, project.ID)

	engine.Apply(ctx, project.ID, placements)
	second := loadTasks(t, repo, project.ID)

	for id, task := range first {
		assert.Equal(t, task.Stage, second[id].Stage, id)
		assert.Equal(t, task.Order, second[id].Order, id)
	}
	assert.Equal(t, 0, second["t1"].Order)
	assert.Equal(t, 1, second["t0"].Order)
	assert.Equal(t, models.StageDone, second["t2"].Stage)
}
