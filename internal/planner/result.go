package planner

import "fmt"

// ErrKind identifies why a solve attempt ended without a clean commit.
type ErrKind string

const (
	ErrTranslationFailed ErrKind = "translation_failed"
	ErrCollaborator      ErrKind = "collaborator_error"
	ErrRepairExhausted   ErrKind = "repair_exhausted"
)

// TerminalError records a terminal failure condition inside a PlanResult.
// It is data, not a Go error: Solve still returns a structured result.
type TerminalError struct {
	Kind    ErrKind `json:"kind"`
	Message string  `json:"message"`
}

func (e *TerminalError) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// RepairRecord documents one repair cycle, whether or not it produced a
// usable replacement step.
type RepairRecord struct {
	Attempt      int    `json:"attempt"`
	StepIndex    int    `json:"step_index"`
	OriginalText string `json:"original_text"`
	RepairedText string `json:"repaired_text,omitempty"`
	ErrorMessage string `json:"error_message"`

	// True when the repairer's output could not be translated; the
	// attempt is consumed and the plan left unchanged.
	TranslationFailed bool `json:"translation_failed,omitempty"`
}

// StepTrace records the real execution of one committed step.
type StepTrace struct {
	StepIndex int    `json:"step_index"`
	Text      string `json:"text"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// PlanResult aggregates everything a solve attempt produced.
type PlanResult struct {
	Success       bool `json:"success"`
	StepsExecuted int  `json:"steps_executed"`
	TotalSteps    int  `json:"total_steps"`

	RepairHistory      []RepairRecord `json:"repair_history"`
	TerminalError      *TerminalError `json:"terminal_error,omitempty"`
	CollaboratorCalls  int            `json:"collaborator_calls"`
	ValidationAttempts int            `json:"validation_attempts"`

	AchievedGoals []string `json:"achieved_goals,omitempty"`
	FailedGoals   []string `json:"failed_goals,omitempty"`

	FinalSteps    []PlanStep  `json:"final_steps"`
	ExecutedTrace []StepTrace `json:"executed_trace"`
	Method        string      `json:"method"`
}
