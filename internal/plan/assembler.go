package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/planora/internal/errors"
	"github.com/felixgeelhaar/planora/internal/log"
	"github.com/felixgeelhaar/planora/internal/session"
	"github.com/felixgeelhaar/planora/internal/stage"
)

// fallbackPillar is used for program milestones without a pillar prefix when
// no phases were declared.
const fallbackPillar = "Program"

// Assembler compiles completed sessions into project plans.
type Assembler struct {
	logger *log.Logger
}

// NewAssembler creates an Assembler. A nil logger falls back to the process
// default.
func NewAssembler(logger *log.Logger) *Assembler {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Assembler{logger: logger}
}

// Compile builds a ProjectPlan from the session's five committed records.
// The session must be complete; an incomplete session is a precondition
// violation reported as a distinct not-ready error. Apart from GeneratedAt,
// the result is a pure function of the committed data.
func (a *Assembler) Compile(sess *session.Session) (*ProjectPlan, error) {
	if !sess.IsComplete {
		return nil, errors.NewPlanNotReadyError(string(sess.CurrentStage))
	}

	outcome, err := decodeRecord[*stage.OutcomeData](sess, stage.DefineOutcome)
	if err != nil {
		return nil, err
	}
	constraints, err := decodeRecord[*stage.ConstraintsData](sess, stage.StrategicConstraints)
	if err != nil {
		return nil, err
	}
	phases, err := decodeRecord[*stage.PhasesData](sess, stage.PhasesAndMilestones)
	if err != nil {
		return nil, err
	}
	tasks, err := decodeRecord[*stage.TasksData](sess, stage.TasksAndSubtasks)
	if err != nil {
		return nil, err
	}
	risk, err := decodeRecord[*stage.RiskGovernanceData](sess, stage.RiskAndGovernance)
	if err != nil {
		return nil, err
	}

	p := &ProjectPlan{
		ProjectName:       outcome.ProjectName,
		ProjectType:       outcome.ProjectType,
		SuccessDefinition: outcome.SuccessDefinition,
		Deadline:          constraints.Deadline,
		Budget:            constraints.Budget,
		TeamSize:          constraints.TeamSize,
		Methodology:       constraints.Methodology,
		GeneratedAt:       time.Now().UTC(),
	}

	tasksByPhase := groupTasksByPhase(tasks.Tasks)
	if outcome.ProjectType == stage.ProjectTypeProgram {
		p.Pillars = a.buildPillars(phases, tasksByPhase)
	} else {
		p.Milestones = a.buildMilestones(phases, tasksByPhase)
	}
	a.warnUnmatchedPhases(phases, tasksByPhase)

	p.Governance = &GovernanceInfo{
		Stakeholders:    risk.Stakeholders,
		KPIs:            buildKPIs(risk.KPIs),
		Risks:           buildRisks(risk.Risks),
		ExternalVendors: risk.ExternalVendors,
		ReviewCadence:   risk.ReviewCadence,
	}

	return p, nil
}

// decodeRecord loads and types the committed record for st.
func decodeRecord[T stage.Record](sess *session.Session, st stage.Stage) (T, error) {
	var zero T

	raw, ok := sess.StageData[st]
	if !ok {
		return zero, errors.NewPlanRecordMissingError(string(st))
	}
	def, ok := stage.Lookup(st)
	if !ok {
		return zero, errors.New(errors.ErrCodeStageUnknown,
			"no definition for stage: "+string(st))
	}
	rec, err := def.Decode(raw)
	if err != nil {
		return zero, errors.NewPlanRecordCorruptError(string(st), err)
	}
	typed, ok := rec.(T)
	if !ok {
		return zero, errors.NewPlanRecordCorruptError(string(st),
			fmt.Errorf("unexpected record type %T", rec))
	}
	return typed, nil
}

func groupTasksByPhase(defs []stage.TaskDefinition) map[string][]stage.TaskDefinition {
	byPhase := make(map[string][]stage.TaskDefinition)
	for _, t := range defs {
		byPhase[t.Phase] = append(byPhase[t.Phase], t)
	}
	return byPhase
}

// buildMilestones produces the flat general-project structure, one milestone
// per definition in declared order.
func (a *Assembler) buildMilestones(phases *stage.PhasesData, byPhase map[string][]stage.TaskDefinition) []Milestone {
	milestones := make([]Milestone, 0, len(phases.Milestones))
	for _, def := range phases.Milestones {
		milestones = append(milestones, newMilestone(def.Name, def, byPhase[def.Name]))
	}
	return milestones
}

// buildPillars produces the program structure. A milestone named
// "Pillar - Label" splits on the first " - "; milestones without the
// separator fall under the first declared phase, or a fixed fallback when no
// phases exist. Pillars keep first-seen order.
func (a *Assembler) buildPillars(phases *stage.PhasesData, byPhase map[string][]stage.TaskDefinition) []Pillar {
	var pillars []Pillar
	index := make(map[string]int)

	for _, def := range phases.Milestones {
		pillarName, label, found := strings.Cut(def.Name, " - ")
		if !found {
			if len(phases.Phases) > 0 {
				pillarName = phases.Phases[0]
			} else {
				pillarName = fallbackPillar
			}
			label = def.Name
		}

		// Tasks reference the full milestone name as written in stage 3.
		milestone := newMilestone(label, def, byPhase[def.Name])

		i, ok := index[pillarName]
		if !ok {
			i = len(pillars)
			index[pillarName] = i
			pillars = append(pillars, Pillar{Name: pillarName})
		}
		pillars[i].Milestones = append(pillars[i].Milestones, milestone)
	}

	return pillars
}

func newMilestone(name string, def stage.MilestoneDefinition, taskDefs []stage.TaskDefinition) Milestone {
	m := Milestone{
		Name:     name,
		Timeline: def.Timeline,
		Owner:    def.Owner,
		Tasks:    buildTasks(taskDefs),
	}
	if def.Deliverable != "" {
		deliverable := def.Deliverable
		m.Deliverable = &deliverable
	}
	return m
}

func buildTasks(defs []stage.TaskDefinition) []Task {
	tasks := make([]Task, 0, len(defs))
	for _, t := range defs {
		task := Task{
			Name:         t.Name,
			Owner:        t.Owner,
			DurationDays: t.DurationDays,
			Dependencies: t.Dependencies,
			Subtasks:     make([]SubTask, 0, len(t.Subtasks)),
		}
		for _, st := range t.Subtasks {
			sub := SubTask{
				Name:         st.Name,
				Owner:        st.Owner,
				Deliverable:  st.Deliverable,
				Dependencies: st.Dependencies,
			}
			if st.DurationDays != nil {
				timeline := fmt.Sprintf("%dd", *st.DurationDays)
				sub.Timeline = &timeline
			}
			task.Subtasks = append(task.Subtasks, sub)
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// warnUnmatchedPhases flags task phase strings that match no milestone name.
// A mismatch is a data-entry problem, not an error; the tasks just end up
// attached to nothing.
func (a *Assembler) warnUnmatchedPhases(phases *stage.PhasesData, byPhase map[string][]stage.TaskDefinition) {
	known := make(map[string]bool, len(phases.Milestones))
	for _, def := range phases.Milestones {
		known[def.Name] = true
	}
	for phase, tasks := range byPhase {
		if !known[phase] {
			a.logger.Warn("task phase matches no milestone",
				"phase", phase,
				"task_count", len(tasks))
		}
	}
}

func buildKPIs(defs []stage.KPIDefinition) []KPI {
	kpis := make([]KPI, 0, len(defs))
	for _, k := range defs {
		kpis = append(kpis, KPI{Metric: k.Metric, Target: k.Target})
	}
	return kpis
}

func buildRisks(defs []stage.RiskDefinition) []Risk {
	risks := make([]Risk, 0, len(defs))
	for _, r := range defs {
		risks = append(risks, Risk{
			Description: r.Description,
			Severity:    r.Severity,
			Mitigation:  r.Mitigation,
		})
	}
	return risks
}
