// Package session holds conversation state and its persistence contract.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/planora/internal/stage"
)

// Message is one turn-log entry.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the unit of conversation state. StageData holds the committed
// record for every stage that precedes CurrentStage; records are committed
// once and never revised in place.
type Session struct {
	ID           string                          `json:"session_id"`
	CurrentStage stage.Stage                     `json:"current_stage"`
	Messages     []Message                       `json:"messages"`
	StageData    map[stage.Stage]json.RawMessage `json:"stage_data"`
	IsComplete   bool                            `json:"is_complete"`
	CreatedAt    time.Time                       `json:"created_at"`
	UpdatedAt    time.Time                       `json:"updated_at"`
}

// New creates an empty session at the first stage.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.New().String(),
		CurrentStage: stage.DefineOutcome,
		StageData:    make(map[stage.Stage]json.RawMessage),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Append adds a message to the turn log.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	s.UpdatedAt = time.Now().UTC()
}

// Commit stores the record under the current stage key.
func (s *Session) Commit(rec stage.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal stage record: %w", err)
	}
	if s.StageData == nil {
		s.StageData = make(map[stage.Stage]json.RawMessage)
	}
	s.StageData[s.CurrentStage] = raw
	return nil
}

// Advance moves to the next stage and sets the completion flag on reaching
// the terminal stage. Advancing a terminal session is a no-op.
func (s *Session) Advance() {
	s.CurrentStage = stage.Next(s.CurrentStage)
	if stage.IsTerminal(s.CurrentStage) {
		s.IsComplete = true
	}
	s.UpdatedAt = time.Now().UTC()
}

// Record decodes the committed record for st using the stage registry.
func (s *Session) Record(st stage.Stage) (stage.Record, error) {
	raw, ok := s.StageData[st]
	if !ok {
		return nil, fmt.Errorf("no committed record for stage %s", st)
	}
	def, ok := stage.Lookup(st)
	if !ok {
		return nil, fmt.Errorf("stage %s has no record schema", st)
	}
	return def.Decode(raw)
}

// Clone returns a deep copy. Stores hand out clones so a caller mutating a
// session mid-turn never aliases stored state.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Messages = make([]Message, len(s.Messages))
	copy(cp.Messages, s.Messages)
	cp.StageData = make(map[stage.Stage]json.RawMessage, len(s.StageData))
	for k, v := range s.StageData {
		raw := make(json.RawMessage, len(v))
		copy(raw, v)
		cp.StageData[k] = raw
	}
	return &cp
}
