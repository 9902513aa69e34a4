package stage

import "encoding/json"

// Definition bundles everything the controller needs for one collecting
// stage: the prompt text for both oracle calls, the extraction tool schema,
// and a decoder producing the stage's typed record.
type Definition struct {
	Stage            Stage
	SystemPrompt     string
	ExtractionPrompt string
	Schema           map[string]any

	newRecord func() Record
}

// ToolName is the structured-output tool identifier offered to the model
// for this stage's extraction call.
func (d *Definition) ToolName() string {
	return "record_" + string(d.Stage)
}

// Decode parses raw JSON into the stage's typed record. A type mismatch
// returns an error; callers treat that the same as "no extraction result".
func (d *Definition) Decode(raw json.RawMessage) (Record, error) {
	rec := d.newRecord()
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

var registry = map[Stage]*Definition{
	DefineOutcome: {
		Stage:            DefineOutcome,
		SystemPrompt:     systemPrompts[DefineOutcome],
		ExtractionPrompt: extractionPrompts[DefineOutcome],
		Schema:           outcomeSchema(),
		newRecord:        func() Record { return &OutcomeData{} },
	},
	StrategicConstraints: {
		Stage:            StrategicConstraints,
		SystemPrompt:     systemPrompts[StrategicConstraints],
		ExtractionPrompt: extractionPrompts[StrategicConstraints],
		Schema:           constraintsSchema(),
		newRecord:        func() Record { return &ConstraintsData{} },
	},
	PhasesAndMilestones: {
		Stage:            PhasesAndMilestones,
		SystemPrompt:     systemPrompts[PhasesAndMilestones],
		ExtractionPrompt: extractionPrompts[PhasesAndMilestones],
		Schema:           phasesSchema(),
		newRecord:        func() Record { return &PhasesData{} },
	},
	TasksAndSubtasks: {
		Stage:            TasksAndSubtasks,
		SystemPrompt:     systemPrompts[TasksAndSubtasks],
		ExtractionPrompt: extractionPrompts[TasksAndSubtasks],
		Schema:           tasksSchema(),
		newRecord:        func() Record { return &TasksData{} },
	},
	RiskAndGovernance: {
		Stage:            RiskAndGovernance,
		SystemPrompt:     systemPrompts[RiskAndGovernance],
		ExtractionPrompt: extractionPrompts[RiskAndGovernance],
		Schema:           riskGovernanceSchema(),
		newRecord:        func() Record { return &RiskGovernanceData{} },
	},
}

// Lookup returns the definition for a collecting stage. The terminal stage
// has no definition; ok is false for it and for unknown symbols.
func Lookup(s Stage) (*Definition, bool) {
	def, ok := registry[s]
	return def, ok
}
