package models

import "fmt"

type Stage string

const (
	StageRequested  Stage = "Requested"
	StageTodo       Stage = "To do"
	StageInProgress Stage = "In Progress"
	StageDone       Stage = "Done"
)

// Stages lists the board columns in display order.
var Stages = []Stage{StageRequested, StageTodo, StageInProgress, StageDone}

// InitialStage is where every new task lands.
const InitialStage = StageRequested

func (s Stage) Valid() bool {
	switch s {
	case StageRequested, StageTodo, StageInProgress, StageDone:
		return true
	}
	return false
}

// ParseStage converts a raw column name, rejecting anything outside the fixed set.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid stage %q", s)
	}
	return st, nil
}
