package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/models"
)

func TestPlan_AssignsStageAndPosition(t *testing.T) {
	placements, err := Plan(Snapshot{
		{Name: "Done", TaskIDs: []string{"d1"}},
		{Name: "Requested", TaskIDs: []string{"r1", "r2"}},
		{Name: "To do", TaskIDs: nil},
	})
	require.NoError(t, err)

	assert.Equal(t, []Placement{
		{TaskID: "r1", Stage: models.StageRequested, Order: 0},
		{TaskID: "r2", Stage: models.StageRequested, Order: 1},
		{TaskID: "d1", Stage: models.StageDone, Order: 0},
	}, placements)
}

func TestPlan_EmptySnapshot(t *testing.T) {
	placements, err := Plan(nil)
	require.NoError(t, err)
	assert.Empty(t, placements)
}

func TestPlan_DuplicateTaskKeepsLastPlacement(t *testing.T) {
	placements, err := Plan(Snapshot{
		{Name: "Requested", TaskIDs: []string{"a", "b"}},
		{Name: "Done", TaskIDs: []string{"c", "a"}},
	})
	require.NoError(t, err)

	require.Len(t, placements, 3)
	assert.Equal(t, Placement{TaskID: "a", Stage: models.StageDone, Order: 1}, placements[0])
	assert.Equal(t, "b", placements[1].TaskID)
	assert.Equal(t, "c", placements[2].TaskID)
}

func TestPlan_RejectsUnknownStage(t *testing.T) {
	_, err := Plan(Snapshot{
		{Name: "Requested", TaskIDs: []string{"a"}},
		{Name: "Backlog", TaskIDs: []string{"b"}},
	})
	require.Error(t, err)

	var invalid *InvalidSnapshotError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Problems, "Backlog")
	assert.Contains(t, invalid.Error(), "Backlog")
}

func TestPlan_RejectsRepeatedStageAndBlankIDs(t *testing.T) {
	_, err := Plan(Snapshot{
		{Name: "Done", TaskIDs: []string{"a"}},
		{Name: "Done", TaskIDs: []string{"b"}},
	})
	var invalid *InvalidSnapshotError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "stage appears in more than one column", invalid.Problems["Done"])

	_, err = Plan(Snapshot{{Name: "To do", TaskIDs: []string{" "}}})
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Problems, "To do")
}
