package stage

// JSON schemas handed to the oracle as the extraction tool's input schema.
// They mirror the record structs in records.go; required lists cover only
// the fields the completeness predicates inspect.

func outcomeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"project_name":       map[string]any{"type": "string"},
			"project_type":       map[string]any{"type": "string", "enum": []string{ProjectTypeGeneral, ProjectTypeProgram}},
			"success_definition": map[string]any{"type": "string"},
			"measurable_result":  map[string]any{"type": "string"},
			"key_stakeholders":   stringArray(),
		},
		"required": []string{"project_name", "project_type", "success_definition", "measurable_result"},
	}
}

func constraintsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"deadline":        nullable("string"),
			"budget":          nullable("string"),
			"team_size":       nullable("integer"),
			"methodology":     nullable("string"),
			"key_constraints": stringArray(),
			"assumptions":     stringArray(),
		},
	}
}

func phasesSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phases": stringArray(),
			"milestones": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"deliverable": map[string]any{"type": "string"},
						"timeline":    nullable("string"),
						"owner":       nullable("string"),
					},
					"required": []string{"name", "deliverable"},
				},
			},
		},
		"required": []string{"phases", "milestones"},
	}
}

func tasksSchema() map[string]any {
	subtask := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":          map[string]any{"type": "string"},
			"owner":         nullable("string"),
			"duration_days": nullable("integer"),
			"dependencies":  stringArray(),
			"deliverable":   nullable("string"),
		},
		"required": []string{"name"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tasks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":          map[string]any{"type": "string"},
						"phase":         map[string]any{"type": "string"},
						"owner":         nullable("string"),
						"duration_days": nullable("integer"),
						"dependencies":  stringArray(),
						"subtasks":      map[string]any{"type": "array", "items": subtask},
					},
					"required": []string{"name", "phase"},
				},
			},
		},
		"required": []string{"tasks"},
	}
}

func riskGovernanceSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"risks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"description": map[string]any{"type": "string"},
						"severity":    map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
						"mitigation":  nullable("string"),
					},
					"required": []string{"description", "severity"},
				},
			},
			"stakeholders": stringArray(),
			"kpis": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"metric": map[string]any{"type": "string"},
						"target": nullable("string"),
					},
					"required": []string{"metric"},
				},
			},
			"external_vendors": stringArray(),
			"review_cadence":   nullable("string"),
		},
		"required": []string{"risks", "stakeholders"},
	}
}

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func nullable(typ string) map[string]any {
	return map[string]any{"type": []string{typ, "null"}}
}
