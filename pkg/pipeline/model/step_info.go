package model

import "strconv"

type stepType string

const (
	StartStepType  stepType = "start"
	NormalStepType stepType = "step"
	EndStepType    stepType = "end"
)

// StepInfo describes one position in a pipeline.
type StepInfo struct {
	Type  stepType
	Name  string
	Index int
}

// Key identifies the step inside its pipeline. The same operation may appear
// more than once, so the position is part of the key.
func (s *StepInfo) Key() string {
	if s.Type != NormalStepType {
		return s.Name
	}

	return strconv.Itoa(s.Index+1) + ". " + s.Name
}

var (
	StartStep = &StepInfo{Type: StartStepType, Name: "start", Index: -1}
	EndStep   = &StepInfo{Type: EndStepType, Name: "end", Index: -1}
)
