// Package plan compiles the five committed stage records into a typed
// project plan and renders it as Markdown. Compilation is a pure function of
// the committed data; only the generation timestamp varies between runs.
package plan

import "time"

// SubTask is a leaf work item under a Task.
type SubTask struct {
	Name         string   `json:"name" yaml:"name"`
	Owner        *string  `json:"owner,omitempty" yaml:"owner,omitempty"`
	Timeline     *string  `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Deliverable  *string  `json:"deliverable,omitempty" yaml:"deliverable,omitempty"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
}

// Task is a unit of work attached to a milestone.
type Task struct {
	Name         string    `json:"name" yaml:"name"`
	Owner        *string   `json:"owner,omitempty" yaml:"owner,omitempty"`
	Timeline     *string   `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	DurationDays *int      `json:"duration_days,omitempty" yaml:"duration_days,omitempty"`
	Dependencies []string  `json:"dependencies" yaml:"dependencies"`
	Subtasks     []SubTask `json:"subtasks" yaml:"subtasks"`
}

// Milestone groups tasks under a named deliverable.
type Milestone struct {
	Name        string  `json:"name" yaml:"name"`
	Deliverable *string `json:"deliverable,omitempty" yaml:"deliverable,omitempty"`
	Timeline    *string `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Owner       *string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Tasks       []Task  `json:"tasks" yaml:"tasks"`
}

// Pillar is a top-level grouping used only by program-type plans.
type Pillar struct {
	Name       string      `json:"name" yaml:"name"`
	Milestones []Milestone `json:"milestones" yaml:"milestones"`
}

// Risk is a governance-tracked project risk.
type Risk struct {
	Description string  `json:"description" yaml:"description"`
	Severity    string  `json:"severity" yaml:"severity"`
	Mitigation  *string `json:"mitigation,omitempty" yaml:"mitigation,omitempty"`
}

// KPI is a success metric with an optional target.
type KPI struct {
	Metric string  `json:"metric" yaml:"metric"`
	Target *string `json:"target,omitempty" yaml:"target,omitempty"`
}

// GovernanceInfo bundles the risk-and-governance stage output.
type GovernanceInfo struct {
	Stakeholders    []string `json:"stakeholders" yaml:"stakeholders"`
	KPIs            []KPI    `json:"kpis" yaml:"kpis"`
	Risks           []Risk   `json:"risks" yaml:"risks"`
	ExternalVendors []string `json:"external_vendors" yaml:"external_vendors"`
	ReviewCadence   *string  `json:"review_cadence,omitempty" yaml:"review_cadence,omitempty"`
}

// ProjectPlan is the compiled output document. Exactly one of Milestones
// (general projects) or Pillars (programs) is populated.
type ProjectPlan struct {
	ProjectName       string  `json:"project_name" yaml:"project_name"`
	ProjectType       string  `json:"project_type" yaml:"project_type"`
	SuccessDefinition string  `json:"success_definition" yaml:"success_definition"`
	Deadline          *string `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Budget            *string `json:"budget,omitempty" yaml:"budget,omitempty"`
	TeamSize          *int    `json:"team_size,omitempty" yaml:"team_size,omitempty"`
	Methodology       *string `json:"methodology,omitempty" yaml:"methodology,omitempty"`

	Milestones []Milestone `json:"milestones" yaml:"milestones"`
	Pillars    []Pillar    `json:"pillars" yaml:"pillars"`

	Governance  *GovernanceInfo `json:"governance,omitempty" yaml:"governance,omitempty"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
}
