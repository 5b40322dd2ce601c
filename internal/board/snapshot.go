// Package board turns a drag-and-drop board snapshot into per-task stage and
// order assignments and writes them back one task at a time.
package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/models"
)

// Column is one board column exactly as the client sent it.
type Column struct {
	Name    string
	TaskIDs []string
}

// Snapshot is the whole board after a drag-and-drop gesture.
type Snapshot []Column

// Placement is the stage and position one task ends up with.
type Placement struct {
	TaskID string       `json:"task_id"`
	Stage  models.Stage `json:"stage"`
	Order  int          `json:"order"`
}

// InvalidSnapshotError lists problems keyed by column name. Nothing has been
// written when it is returned.
type InvalidSnapshotError struct {
	Problems map[string]string
}

func (e *InvalidSnapshotError) Error() string {
	keys := make([]string, 0, len(e.Problems))
	for k := range e.Problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Problems[k])
	}
	return "invalid board snapshot: " + strings.Join(parts, "; ")
}

// Plan assigns stage = column and order = position for every listed task.
// Columns are processed in board order; a task listed more than once keeps
// its last placement. Tasks not listed get no placement and keep whatever
// they had.
func Plan(snapshot Snapshot) ([]Placement, error) {
	problems := map[string]string{}
	byStage := make(map[models.Stage]Column, len(snapshot))

	for _, col := range snapshot {
		stage, err := models.ParseStage(col.Name)
		if err != nil {
			problems[col.Name] = fmt.Sprintf("unknown stage; must be one of %s", stageList())
			continue
		}
		if _, dup := byStage[stage]; dup {
			problems[col.Name] = "stage appears in more than one column"
			continue
		}
		for i, id := range col.TaskIDs {
			if strings.TrimSpace(id) == "" {
				problems[col.Name] = fmt.Sprintf("item %d has no task id", i)
			}
		}
		byStage[stage] = col
	}
	if len(problems) > 0 {
		return nil, &InvalidSnapshotError{Problems: problems}
	}

	var placements []Placement
	last := map[string]int{}
	for _, stage := range models.Stages {
		col, ok := byStage[stage]
		if !ok {
			continue
		}
		for pos, id := range col.TaskIDs {
			p := Placement{TaskID: id, Stage: stage, Order: pos}
			if i, seen := last[id]; seen {
				placements[i] = p
				continue
			}
			last[id] = len(placements)
			placements = append(placements, p)
		}
	}
	return placements, nil
}

func stageList() string {
	names := make([]string, len(models.Stages))
	for i, s := range models.Stages {
		names[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(names, ", ")
}
