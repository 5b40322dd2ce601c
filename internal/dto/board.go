package dto

import (
	"sort"

	"github.com/yukikurage/taskboard-api/internal/board"
)

// ReorderItem is one card in a column. Clients send either "_id" or "id";
// any other card fields are ignored.
type ReorderItem struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
}

// TaskID returns whichever identifier the client supplied.
func (i ReorderItem) TaskID() string {
	if i.MongoID != "" {
		return i.MongoID
	}
	return i.ID
}

// ReorderColumn is one board column: its stage name and cards top to bottom.
type ReorderColumn struct {
	Name  string        `json:"name"`
	Items []ReorderItem `json:"items"`
}

// ReorderRequest is the body of PUT /project/:id/todo: the whole board keyed
// by arbitrary column keys.
type ReorderRequest map[string]ReorderColumn

// Snapshot converts the request into a board snapshot. Columns are sorted by
// key so the result does not depend on map iteration order.
func (r ReorderRequest) Snapshot() board.Snapshot {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snapshot := make(board.Snapshot, 0, len(keys))
	for _, k := range keys {
		col := r[k]
		ids := make([]string, len(col.Items))
		for i, item := range col.Items {
			ids[i] = item.TaskID()
		}
		snapshot = append(snapshot, board.Column{Name: col.Name, TaskIDs: ids})
	}
	return snapshot
}
