// Package stage defines the five planning stages, their extraction records,
// completeness predicates, and fixed prompt text. Behavior is dispatched by
// table lookup on the stage symbol rather than by handler types.
package stage

import "fmt"

// Stage identifies one phase of the guided planning conversation.
type Stage string

const (
	DefineOutcome        Stage = "define_outcome"
	StrategicConstraints Stage = "strategic_constraints"
	PhasesAndMilestones  Stage = "phases_and_milestones"
	TasksAndSubtasks     Stage = "tasks_and_subtasks"
	RiskAndGovernance    Stage = "risk_and_governance"
	Complete             Stage = "complete"
)

// Order is the fixed progression. Complete is terminal and absorbing.
var Order = []Stage{
	DefineOutcome,
	StrategicConstraints,
	PhasesAndMilestones,
	TasksAndSubtasks,
	RiskAndGovernance,
	Complete,
}

var labels = map[Stage]string{
	DefineOutcome:        "Stage 1: Define Outcome",
	StrategicConstraints: "Stage 2: Strategic Constraints",
	PhasesAndMilestones:  "Stage 3: Phases & Milestones",
	TasksAndSubtasks:     "Stage 4: Tasks & Subtasks",
	RiskAndGovernance:    "Stage 5: Risk & Governance",
	Complete:             "Complete",
}

// Parse converts a stored stage string back into a Stage.
func Parse(s string) (Stage, error) {
	for _, st := range Order {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage: %q", s)
}

// Index returns the position of s in Order, or the terminal index if s is
// not a known stage.
func Index(s Stage) int {
	for i, st := range Order {
		if st == s {
			return i
		}
	}
	return len(Order) - 1
}

// Next returns the stage after s. Calling it on Complete returns Complete.
func Next(s Stage) Stage {
	idx := Index(s)
	if idx < len(Order)-1 {
		return Order[idx+1]
	}
	return Complete
}

// IsTerminal reports whether s is the absorbing final stage.
func IsTerminal(s Stage) bool {
	return s == Complete
}

// Label returns the fixed human-readable label for s.
func Label(s Stage) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Progress returns completion as an integer percentage: the stage index over
// the final index.
func Progress(s Stage) int {
	return Index(s) * 100 / (len(Order) - 1)
}
