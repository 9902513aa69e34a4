package stage

// Missing is the sentinel the extraction oracle is instructed to emit for a
// required string field it could not find in the conversation. Optional
// fields use true absence (nil) instead.
const Missing = "MISSING"

// ProjectType values recognized in OutcomeData.
const (
	ProjectTypeGeneral = "general"
	ProjectTypeProgram = "program"
)

// Record is a structured extraction result for one stage. Complete reports
// whether the record satisfies the stage's completeness predicate; an
// incomplete record is treated the same as no extraction result at all.
type Record interface {
	Complete() bool
}

// OutcomeData is the stage 1 record: what the project is and what success
// looks like.
type OutcomeData struct {
	ProjectName       string   `json:"project_name"`
	ProjectType       string   `json:"project_type"`
	SuccessDefinition string   `json:"success_definition"`
	MeasurableResult  string   `json:"measurable_result"`
	KeyStakeholders   []string `json:"key_stakeholders,omitempty"`
}

// Complete requires all three required strings to be present and not the
// sentinel, and the project type to be one of the two recognized values.
func (d *OutcomeData) Complete() bool {
	return d.ProjectName != "" && d.ProjectName != Missing &&
		d.SuccessDefinition != "" && d.SuccessDefinition != Missing &&
		d.MeasurableResult != "" && d.MeasurableResult != Missing &&
		(d.ProjectType == ProjectTypeGeneral || d.ProjectType == ProjectTypeProgram)
}

// ConstraintsData is the stage 2 record: timeline, budget, team, and
// non-negotiables. Every field is optional; a nil pointer means the topic
// was never discussed.
type ConstraintsData struct {
	Deadline       *string  `json:"deadline,omitempty"`
	Budget         *string  `json:"budget,omitempty"`
	TeamSize       *int     `json:"team_size,omitempty"`
	Methodology    *string  `json:"methodology,omitempty"`
	KeyConstraints []string `json:"key_constraints,omitempty"`
	Assumptions    []string `json:"assumptions,omitempty"`
}

// Complete requires a deadline or at least one key constraint.
func (d *ConstraintsData) Complete() bool {
	return (d.Deadline != nil && *d.Deadline != "") || len(d.KeyConstraints) > 0
}

// MilestoneDefinition is one milestone deliverable captured in stage 3.
type MilestoneDefinition struct {
	Name        string  `json:"name"`
	Deliverable string  `json:"deliverable"`
	Timeline    *string `json:"timeline,omitempty"`
	Owner       *string `json:"owner,omitempty"`
}

// PhasesData is the stage 3 record: the phase breakdown and its milestones.
type PhasesData struct {
	Phases     []string              `json:"phases"`
	Milestones []MilestoneDefinition `json:"milestones"`
}

// Complete requires at least two phases and one milestone.
func (d *PhasesData) Complete() bool {
	return len(d.Phases) >= 2 && len(d.Milestones) >= 1
}

// SubTaskDefinition is one subtask captured in stage 4.
type SubTaskDefinition struct {
	Name         string   `json:"name"`
	Owner        *string  `json:"owner,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Deliverable  *string  `json:"deliverable,omitempty"`
}

// TaskDefinition is one task captured in stage 4. Phase links the task to a
// milestone name from stage 3 by exact string match.
type TaskDefinition struct {
	Name         string              `json:"name"`
	Phase        string              `json:"phase"`
	Owner        *string             `json:"owner,omitempty"`
	DurationDays *int                `json:"duration_days,omitempty"`
	Dependencies []string            `json:"dependencies,omitempty"`
	Subtasks     []SubTaskDefinition `json:"subtasks,omitempty"`
}

// TasksData is the stage 4 record.
type TasksData struct {
	Tasks []TaskDefinition `json:"tasks"`
}

// Complete requires at least one task and at least one task with a
// non-empty owner.
func (d *TasksData) Complete() bool {
	if len(d.Tasks) == 0 {
		return false
	}
	for _, t := range d.Tasks {
		if t.Owner != nil && *t.Owner != "" {
			return true
		}
	}
	return false
}

// RiskDefinition is one risk captured in stage 5.
type RiskDefinition struct {
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	Mitigation  *string `json:"mitigation,omitempty"`
}

// KPIDefinition is one success metric captured in stage 5.
type KPIDefinition struct {
	Metric string  `json:"metric"`
	Target *string `json:"target,omitempty"`
}

// RiskGovernanceData is the stage 5 record.
type RiskGovernanceData struct {
	Risks           []RiskDefinition `json:"risks"`
	Stakeholders    []string         `json:"stakeholders"`
	KPIs            []KPIDefinition  `json:"kpis,omitempty"`
	ExternalVendors []string         `json:"external_vendors,omitempty"`
	ReviewCadence   *string          `json:"review_cadence,omitempty"`
}

// Complete requires at least one risk and one stakeholder.
func (d *RiskGovernanceData) Complete() bool {
	return len(d.Risks) >= 1 && len(d.Stakeholders) >= 1
}
