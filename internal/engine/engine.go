// Package engine drives the stage progression state machine. Each user turn
// runs the same pipeline: conversational reply, structured extraction,
// completeness check, contradiction check, then commit-and-advance or
// re-prompt.
package engine

import (
	"context"

	"github.com/felixgeelhaar/planora/internal/contradiction"
	"github.com/felixgeelhaar/planora/internal/errors"
	"github.com/felixgeelhaar/planora/internal/log"
	"github.com/felixgeelhaar/planora/internal/provider"
	"github.com/felixgeelhaar/planora/internal/session"
	"github.com/felixgeelhaar/planora/internal/stage"
)

// Oracle is the pair of model calls a turn makes.
type Oracle interface {
	GenerateReply(ctx context.Context, systemPrompt string, history []provider.Message) (string, error)
	Extract(ctx context.Context, def *stage.Definition, history []provider.Message) (stage.Record, bool, error)
}

// Controller orchestrates the planning conversation over a session.
type Controller struct {
	oracle  Oracle
	checker *contradiction.Checker
	logger  *log.Logger
}

// NewController creates a Controller. A nil logger falls back to the
// process default.
func NewController(o Oracle, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Controller{
		oracle:  o,
		checker: contradiction.NewChecker(logger),
		logger:  logger,
	}
}

// ProcessTurn runs one conversation turn, mutating sess in place. The
// returned reply is always appended to the session before returning, so a
// saved session replays identically.
//
// A completed session answers with a fixed notice and never reaches the
// model. An extraction that is missing, incomplete, or contradictory leaves
// the stage unchanged; only a complete, consistent record commits and
// advances.
func (c *Controller) ProcessTurn(ctx context.Context, sess *session.Session, userMessage string) (string, error) {
	if sess.IsComplete || stage.IsTerminal(sess.CurrentStage) {
		sess.Append("user", userMessage)
		sess.Append("assistant", stage.CompletedNotice)
		return stage.CompletedNotice, nil
	}

	def, ok := stage.Lookup(sess.CurrentStage)
	if !ok {
		return "", errors.New(errors.ErrCodeStageUnknown,
			"no definition for stage: "+string(sess.CurrentStage))
	}

	sess.Append("user", userMessage)
	history := History(sess)

	// The user turn stays in the log even when this call fails, so a retry
	// carries the full conversation.
	reply, err := c.oracle.GenerateReply(ctx, def.SystemPrompt, history)
	if err != nil {
		return "", err
	}

	reply = c.tryAdvance(ctx, sess, def, history, reply)

	sess.Append("assistant", reply)
	return reply, nil
}

// tryAdvance runs extraction through commit-or-reprompt and returns the
// final reply text for the turn.
func (c *Controller) tryAdvance(ctx context.Context, sess *session.Session, def *stage.Definition, history []provider.Message, reply string) string {
	rec, found, err := c.oracle.Extract(ctx, def, history)
	if err != nil {
		// Extraction failures never fail the turn; the stage simply does
		// not advance and the conversation continues.
		c.logger.WithError(err).Warn("extraction call failed",
			"stage", string(def.Stage))
		return reply
	}
	if !found || !rec.Complete() {
		return reply
	}

	if found := c.checker.Check(def.Stage, rec, sess.StageData); found != nil {
		c.logger.Info("contradiction detected",
			"stage", string(def.Stage),
			"description", found.Description)
		return "I noticed a potential conflict: " + found.Description +
			"\n\n" + found.ClarificationQuestion
	}

	if err := sess.Commit(rec); err != nil {
		c.logger.WithError(err).Error("commit failed",
			"stage", string(def.Stage))
		return reply
	}
	sess.Advance()

	c.logger.Info("stage advanced",
		"session_id", sess.ID,
		"stage", string(sess.CurrentStage),
		"is_complete", sess.IsComplete)

	return reply + "\n\n---\n" + stage.TransitionMessage(sess.CurrentStage)
}

// History converts the session turn log to provider messages.
func History(sess *session.Session) []provider.Message {
	history := make([]provider.Message, 0, len(sess.Messages))
	for _, msg := range sess.Messages {
		history = append(history, provider.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return history
}
