package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/planora/internal/stage"
)

func TestNewSession(t *testing.T) {
	s := New()

	if s.ID == "" {
		t.Error("new session should have an id")
	}
	if s.CurrentStage != stage.DefineOutcome {
		t.Errorf("CurrentStage = %v, want %v", s.CurrentStage, stage.DefineOutcome)
	}
	if s.IsComplete {
		t.Error("new session should not be complete")
	}
	if len(s.StageData) != 0 {
		t.Error("new session should have no stage data")
	}
}

func TestAppend(t *testing.T) {
	s := New()
	s.Append("user", "hello")
	s.Append("assistant", "hi there")

	if len(s.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(s.Messages))
	}
	if s.Messages[0].Role != "user" || s.Messages[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", s.Messages[0])
	}
	if s.Messages[1].Timestamp.IsZero() {
		t.Error("message timestamp should be set")
	}
}

func TestCommitAndAdvance(t *testing.T) {
	s := New()

	rec := &stage.OutcomeData{
		ProjectName:       "Apollo",
		ProjectType:       "general",
		SuccessDefinition: "launch",
		MeasurableResult:  "500 users",
	}
	if err := s.Commit(rec); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	s.Advance()

	if s.CurrentStage != stage.StrategicConstraints {
		t.Errorf("CurrentStage = %v, want %v", s.CurrentStage, stage.StrategicConstraints)
	}
	if _, ok := s.StageData[stage.DefineOutcome]; !ok {
		t.Error("committed record should be keyed by the stage it was collected at")
	}

	got, err := s.Record(stage.DefineOutcome)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	outcome := got.(*stage.OutcomeData)
	if outcome.ProjectName != "Apollo" {
		t.Errorf("round-tripped ProjectName = %q, want Apollo", outcome.ProjectName)
	}
}

func TestAdvanceToCompletion(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		s.Advance()
	}

	if s.CurrentStage != stage.Complete {
		t.Errorf("CurrentStage = %v, want complete", s.CurrentStage)
	}
	if !s.IsComplete {
		t.Error("completion flag should be set on reaching the terminal stage")
	}

	// Terminal stage is absorbing.
	s.Advance()
	if s.CurrentStage != stage.Complete {
		t.Error("advancing a complete session must be a no-op")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New()
	s.Append("user", "hello")
	s.StageData[stage.DefineOutcome] = json.RawMessage(`{"project_name":"Apollo"}`)

	cp := s.Clone()
	cp.Messages[0].Content = "mutated"
	cp.StageData[stage.DefineOutcome] = json.RawMessage(`{}`)

	if s.Messages[0].Content != "hello" {
		t.Error("mutating the clone's messages leaked into the original")
	}
	if string(s.StageData[stage.DefineOutcome]) != `{"project_name":"Apollo"}` {
		t.Error("mutating the clone's stage data leaked into the original")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New()
	s.Append("user", "start planning")
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for a saved session")
	}
	if got.ID != s.ID || len(got.Messages) != 1 {
		t.Errorf("round-tripped session mismatch: %+v", got)
	}

	// Returned session must not alias stored state.
	got.Append("user", "extra")
	again, _ := store.Get(ctx, s.ID)
	if len(again.Messages) != 1 {
		t.Error("store handed out aliased state")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Error("Get() for unknown id should return nil")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New()
	store.Save(ctx, s)
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	got, _ := store.Get(ctx, s.ID)
	if got != nil {
		t.Error("session should be gone after delete")
	}

	// Deleting again is not an error.
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Errorf("Delete() of unknown id should be a no-op, got %v", err)
	}
}
