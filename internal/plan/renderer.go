package plan

import (
	"fmt"
	"strings"
)

// RenderMarkdown converts a compiled plan into human-readable Markdown.
// General projects render milestones at heading level 2; programs add a
// pillar heading and push milestones to level 3. Governance subsections
// appear only when their source list is non-empty.
func RenderMarkdown(p *ProjectPlan) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("# %s", p.ProjectName))
	lines = append(lines, fmt.Sprintf("**Type:** %s", capitalize(p.ProjectType)))
	lines = append(lines, fmt.Sprintf("**Success Definition:** %s", p.SuccessDefinition))
	if p.Deadline != nil && *p.Deadline != "" {
		lines = append(lines, fmt.Sprintf("**Deadline:** %s", *p.Deadline))
	}
	if p.Budget != nil && *p.Budget != "" {
		lines = append(lines, fmt.Sprintf("**Budget:** %s", *p.Budget))
	}
	if p.TeamSize != nil && *p.TeamSize != 0 {
		lines = append(lines, fmt.Sprintf("**Team Size:** %d", *p.TeamSize))
	}
	if p.Methodology != nil && *p.Methodology != "" {
		lines = append(lines, fmt.Sprintf("**Methodology:** %s", *p.Methodology))
	}
	lines = append(lines, "")
	lines = append(lines, "---")

	if p.ProjectType == "program" && len(p.Pillars) > 0 {
		lines = append(lines, "## Program Structure")
		for _, pillar := range p.Pillars {
			lines = append(lines, fmt.Sprintf("\n## Pillar: %s", pillar.Name))
			for _, m := range pillar.Milestones {
				lines = append(lines, renderMilestone(&m, 3)...)
			}
		}
	} else {
		lines = append(lines, "## Project Plan")
		for _, m := range p.Milestones {
			lines = append(lines, renderMilestone(&m, 2)...)
		}
	}

	if p.Governance != nil {
		lines = append(lines, renderGovernance(p.Governance)...)
	}

	return strings.Join(lines, "\n")
}

func renderMilestone(m *Milestone, level int) []string {
	hashes := strings.Repeat("#", level)
	var lines []string

	lines = append(lines, fmt.Sprintf("\n%s %s", hashes, m.Name))
	if m.Deliverable != nil && *m.Deliverable != "" {
		lines = append(lines, fmt.Sprintf("_Deliverable: %s_", *m.Deliverable))
	}
	if m.Timeline != nil && *m.Timeline != "" {
		lines = append(lines, fmt.Sprintf("_Timeline: %s_", *m.Timeline))
	}
	if m.Owner != nil && *m.Owner != "" {
		lines = append(lines, fmt.Sprintf("_Owner: %s_", *m.Owner))
	}

	for _, task := range m.Tasks {
		parts := []string{fmt.Sprintf("**%s**", task.Name)}
		if task.Owner != nil && *task.Owner != "" {
			parts = append(parts, fmt.Sprintf("Owner: %s", *task.Owner))
		}
		if task.DurationDays != nil && *task.DurationDays != 0 {
			parts = append(parts, fmt.Sprintf("Duration: %dd", *task.DurationDays))
		}
		lines = append(lines, "\n- "+strings.Join(parts, " | "))

		if len(task.Dependencies) > 0 {
			lines = append(lines, fmt.Sprintf("  - _Dependencies: %s_", strings.Join(task.Dependencies, ", ")))
		}

		for _, st := range task.Subtasks {
			stParts := []string{st.Name}
			if st.Owner != nil && *st.Owner != "" {
				stParts = append(stParts, fmt.Sprintf("Owner: %s", *st.Owner))
			}
			if st.Timeline != nil && *st.Timeline != "" {
				stParts = append(stParts, fmt.Sprintf("Timeline: %s", *st.Timeline))
			}
			lines = append(lines, "  - "+strings.Join(stParts, " | "))
			if st.Deliverable != nil && *st.Deliverable != "" {
				lines = append(lines, fmt.Sprintf("    - _Deliverable: %s_", *st.Deliverable))
			}
		}
	}

	return lines
}

func renderGovernance(gov *GovernanceInfo) []string {
	lines := []string{"\n---", "## Governance & Risk"}

	if len(gov.Stakeholders) > 0 {
		lines = append(lines, "\n### Stakeholders")
		for _, s := range gov.Stakeholders {
			lines = append(lines, fmt.Sprintf("- %s", s))
		}
	}

	if len(gov.KPIs) > 0 {
		lines = append(lines, "\n### KPIs")
		for _, kpi := range gov.KPIs {
			target := ""
			if kpi.Target != nil && *kpi.Target != "" {
				target = fmt.Sprintf(" — Target: %s", *kpi.Target)
			}
			lines = append(lines, fmt.Sprintf("- **%s**%s", kpi.Metric, target))
		}
	}

	if len(gov.Risks) > 0 {
		lines = append(lines, "\n### Risks")
		for _, risk := range gov.Risks {
			lines = append(lines, fmt.Sprintf("- [%s] %s", strings.ToUpper(risk.Severity), risk.Description))
			if risk.Mitigation != nil && *risk.Mitigation != "" {
				lines = append(lines, fmt.Sprintf("  - _Mitigation: %s_", *risk.Mitigation))
			}
		}
	}

	if len(gov.ExternalVendors) > 0 {
		lines = append(lines, "\n### External Vendors / Dependencies")
		for _, v := range gov.ExternalVendors {
			lines = append(lines, fmt.Sprintf("- %s", v))
		}
	}

	if gov.ReviewCadence != nil && *gov.ReviewCadence != "" {
		lines = append(lines, fmt.Sprintf("\n### Review Cadence\n%s", *gov.ReviewCadence))
	}

	return lines
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
