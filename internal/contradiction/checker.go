// Package contradiction detects cross-stage inconsistencies after a
// successful extraction. A detected contradiction blocks stage advancement
// and surfaces a clarification question; it is never persisted.
package contradiction

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/planora/internal/log"
	"github.com/felixgeelhaar/planora/internal/stage"
)

// Contradiction describes one detected conflict.
type Contradiction struct {
	Description           string
	ClarificationQuestion string
}

// Input is what a rule sees: the newly extracted record plus the parsed
// constraints record from stage 2. Constraints is nil when stage 2 data is
// absent or unparseable; rules that need it report nothing in that case.
type Input struct {
	Record      stage.Record
	Constraints *stage.ConstraintsData
}

// Rule inspects one potential inconsistency. A nil result means the rule
// did not fire.
type Rule func(in Input) *Contradiction

// Checker evaluates stage-keyed rules in order, first match wins, at most
// one contradiction per turn.
type Checker struct {
	logger *log.Logger
	rules  map[stage.Stage][]Rule
}

// NewChecker creates a checker with the built-in rule set. Only the tasks
// stage carries rules today; additional stages register here.
func NewChecker(logger *log.Logger) *Checker {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Checker{
		logger: logger,
		rules: map[stage.Stage][]Rule{
			stage.TasksAndSubtasks: {ownerCountRule, durationSumRule},
		},
	}
}

// Check runs the rules registered for st against the newly extracted record
// and the already-committed stage data. It returns nil when no rule fires.
func (c *Checker) Check(st stage.Stage, rec stage.Record, committed map[stage.Stage]json.RawMessage) *Contradiction {
	rules, ok := c.rules[st]
	if !ok {
		return nil
	}

	in := Input{
		Record:      rec,
		Constraints: c.parseConstraints(committed),
	}

	for _, rule := range rules {
		if con := rule(in); con != nil {
			return con
		}
	}
	return nil
}

// parseConstraints decodes the committed stage 2 record. A parse failure is
// logged and treated as "rules inapplicable", never as a turn error.
func (c *Checker) parseConstraints(committed map[stage.Stage]json.RawMessage) *stage.ConstraintsData {
	raw, ok := committed[stage.StrategicConstraints]
	if !ok {
		return nil
	}

	var constraints stage.ConstraintsData
	if err := json.Unmarshal(raw, &constraints); err != nil {
		c.logger.Warn("could not parse constraints for contradiction check", "error", err.Error())
		return nil
	}
	return &constraints
}

// ownerSkipLabels are placeholder owner values excluded from the distinct
// owner count.
var ownerSkipLabels = map[string]bool{
	"tbd":        true,
	"unassigned": true,
	"n/a":        true,
	"various":    true,
	"":           true,
}

// ownerCountRule fires when the distinct task owners exceed the team size
// recorded in stage 2.
func ownerCountRule(in Input) *Contradiction {
	tasks, ok := in.Record.(*stage.TasksData)
	if !ok || in.Constraints == nil || in.Constraints.TeamSize == nil {
		return nil
	}

	owners := make(map[string]bool)
	for _, t := range tasks.Tasks {
		if t.Owner == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(*t.Owner))
		if ownerSkipLabels[name] {
			continue
		}
		owners[name] = true
	}

	teamSize := *in.Constraints.TeamSize
	if len(owners) <= teamSize {
		return nil
	}

	names := make([]string, 0, len(owners))
	for name := range owners {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Contradiction{
		Description: fmt.Sprintf(
			"You mentioned a team of %d in Stage 2, but I'm now seeing %d distinct task owners: %s.",
			teamSize, len(owners), strings.Join(names, ", ")),
		ClarificationQuestion: "Should I update the team size, or are some of these the same " +
			"person referenced by different names?",
	}
}

// maxSequentialDays is the heuristic ceiling on summed task durations.
const maxSequentialDays = 400

// durationSumRule fires when the sequential sum of task durations exceeds
// the ceiling. The recorded deadline, when present, is quoted verbatim.
func durationSumRule(in Input) *Contradiction {
	tasks, ok := in.Record.(*stage.TasksData)
	if !ok || in.Constraints == nil {
		return nil
	}

	totalDays := 0
	for _, t := range tasks.Tasks {
		if t.DurationDays != nil {
			totalDays += *t.DurationDays
		}
	}
	if totalDays <= maxSequentialDays {
		return nil
	}

	deadlineStr := ""
	if in.Constraints.Deadline != nil && *in.Constraints.Deadline != "" {
		deadlineStr = fmt.Sprintf(" against your deadline of '%s'", *in.Constraints.Deadline)
	}

	return &Contradiction{
		Description: fmt.Sprintf(
			"The sum of all task durations is approximately %d days%s. "+
				"That seems longer than a typical project timeline.",
			totalDays, deadlineStr),
		ClarificationQuestion: "Are these tasks meant to run in parallel, or should we revisit some " +
			"of the duration estimates?",
	}
}
