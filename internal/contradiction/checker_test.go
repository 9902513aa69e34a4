package contradiction

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/planora/internal/stage"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func tasksWithOwners(owners ...string) *stage.TasksData {
	var tasks []stage.TaskDefinition
	for i, o := range owners {
		owner := o
		tasks = append(tasks, stage.TaskDefinition{
			Name:  fmt.Sprintf("task-%d", i),
			Phase: "Build",
			Owner: &owner,
		})
	}
	return &stage.TasksData{Tasks: tasks}
}

func committedConstraints(t *testing.T, c *stage.ConstraintsData) map[stage.Stage]json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal constraints: %v", err)
	}
	return map[stage.Stage]json.RawMessage{stage.StrategicConstraints: raw}
}

func TestNoRulesForOtherStages(t *testing.T) {
	checker := NewChecker(nil)

	rec := &stage.OutcomeData{ProjectName: "Apollo"}
	if got := checker.Check(stage.DefineOutcome, rec, nil); got != nil {
		t.Errorf("no contradiction expected for the outcome stage, got %+v", got)
	}
}

func TestOwnerCountWithinTeamSize(t *testing.T) {
	checker := NewChecker(nil)

	// Placeholder labels and case differences must not inflate the count:
	// distinct non-placeholder owners = {alice, bob} = 2.
	tasks := tasksWithOwners("Alice", "TBD", "unassigned", "Bob", "ALICE ")
	committed := committedConstraints(t, &stage.ConstraintsData{TeamSize: intPtr(2)})

	if got := checker.Check(stage.TasksAndSubtasks, tasks, committed); got != nil {
		t.Errorf("expected no contradiction at exactly team size, got %+v", got)
	}
}

func TestOwnerCountExceedsTeamSize(t *testing.T) {
	checker := NewChecker(nil)

	tasks := tasksWithOwners("Alice", "Bob", "Carol", "Dave")
	committed := committedConstraints(t, &stage.ConstraintsData{TeamSize: intPtr(2)})

	got := checker.Check(stage.TasksAndSubtasks, tasks, committed)
	if got == nil {
		t.Fatal("expected a contradiction for 4 owners vs team of 2")
	}
	if !strings.Contains(got.Description, "4") || !strings.Contains(got.Description, "2") {
		t.Errorf("description should name both counts, got %q", got.Description)
	}
	if !strings.Contains(got.Description, "alice, bob, carol, dave") {
		t.Errorf("description should list sorted owners, got %q", got.Description)
	}
	if got.ClarificationQuestion == "" {
		t.Error("contradiction needs a clarification question")
	}
}

func TestOwnerCountSkippedWithoutTeamSize(t *testing.T) {
	checker := NewChecker(nil)

	tasks := tasksWithOwners("Alice", "Bob", "Carol")
	committed := committedConstraints(t, &stage.ConstraintsData{Deadline: strPtr("Q4")})

	if got := checker.Check(stage.TasksAndSubtasks, tasks, committed); got != nil {
		t.Errorf("rule needs a recorded team size, got %+v", got)
	}
}

func TestRulesSkippedWithoutConstraints(t *testing.T) {
	checker := NewChecker(nil)

	tasks := tasksWithOwners("Alice", "Bob", "Carol")
	tasks.Tasks[0].DurationDays = intPtr(9000)

	if got := checker.Check(stage.TasksAndSubtasks, tasks, nil); got != nil {
		t.Errorf("no stage 2 record means no rules apply, got %+v", got)
	}
}

func TestRulesSkippedOnUnparseableConstraints(t *testing.T) {
	checker := NewChecker(nil)

	tasks := tasksWithOwners("Alice", "Bob", "Carol")
	committed := map[stage.Stage]json.RawMessage{
		stage.StrategicConstraints: json.RawMessage(`{"team_size": "not-a-number"}`),
	}

	if got := checker.Check(stage.TasksAndSubtasks, tasks, committed); got != nil {
		t.Errorf("parse failure must be treated as rule inapplicable, got %+v", got)
	}
}

func TestDurationAtThreshold(t *testing.T) {
	checker := NewChecker(nil)

	tasks := &stage.TasksData{Tasks: []stage.TaskDefinition{
		{Name: "a", Phase: "Build", Owner: strPtr("Alice"), DurationDays: intPtr(250)},
		{Name: "b", Phase: "Build", DurationDays: intPtr(150)},
	}}
	committed := committedConstraints(t, &stage.ConstraintsData{Deadline: strPtr("Q4 2026")})

	if got := checker.Check(stage.TasksAndSubtasks, tasks, committed); got != nil {
		t.Errorf("total of exactly 400 days must not fire, got %+v", got)
	}
}

func TestDurationOverThreshold(t *testing.T) {
	checker := NewChecker(nil)

	tasks := &stage.TasksData{Tasks: []stage.TaskDefinition{
		{Name: "a", Phase: "Build", Owner: strPtr("Alice"), DurationDays: intPtr(250)},
		{Name: "b", Phase: "Build", DurationDays: intPtr(151)},
		{Name: "c", Phase: "Build"}, // nil duration ignored
	}}
	committed := committedConstraints(t, &stage.ConstraintsData{Deadline: strPtr("Q4 2026")})

	got := checker.Check(stage.TasksAndSubtasks, tasks, committed)
	if got == nil {
		t.Fatal("total of 401 days should fire")
	}
	if !strings.Contains(got.Description, "401") {
		t.Errorf("description should carry the total, got %q", got.Description)
	}
	if !strings.Contains(got.Description, "'Q4 2026'") {
		t.Errorf("description should quote the deadline verbatim, got %q", got.Description)
	}
}

func TestDurationWithoutDeadline(t *testing.T) {
	checker := NewChecker(nil)

	tasks := &stage.TasksData{Tasks: []stage.TaskDefinition{
		{Name: "a", Phase: "Build", Owner: strPtr("Alice"), DurationDays: intPtr(500)},
	}}
	committed := committedConstraints(t, &stage.ConstraintsData{KeyConstraints: []string{"on-prem"}})

	got := checker.Check(stage.TasksAndSubtasks, tasks, committed)
	if got == nil {
		t.Fatal("expected a duration contradiction")
	}
	if strings.Contains(got.Description, "deadline") {
		t.Errorf("no deadline recorded, none should be mentioned: %q", got.Description)
	}
}

func TestOwnerRuleWinsOverDuration(t *testing.T) {
	checker := NewChecker(nil)

	// Both rules would fire; owner-count is evaluated first and wins.
	tasks := &stage.TasksData{Tasks: []stage.TaskDefinition{
		{Name: "a", Phase: "Build", Owner: strPtr("Alice"), DurationDays: intPtr(300)},
		{Name: "b", Phase: "Build", Owner: strPtr("Bob"), DurationDays: intPtr(300)},
		{Name: "c", Phase: "Build", Owner: strPtr("Carol")},
	}}
	committed := committedConstraints(t, &stage.ConstraintsData{TeamSize: intPtr(1)})

	got := checker.Check(stage.TasksAndSubtasks, tasks, committed)
	if got == nil {
		t.Fatal("expected a contradiction")
	}
	if !strings.Contains(got.Description, "distinct task owners") {
		t.Errorf("owner-count rule should win, got %q", got.Description)
	}
}
