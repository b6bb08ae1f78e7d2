package planner

import (
	"context"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

// PlanGenerator produces an ordered list of natural-language step
// descriptions for an instruction, given the simulator's current state.
type PlanGenerator interface {
	Generate(ctx context.Context, instruction string, state sim.StateSnapshot) ([]string, error)
}

// RepairRequest carries everything a repairer needs to fix one step: the
// original instruction, the steps that already validated, the clone's
// state after those steps, and the failure itself.
type RepairRequest struct {
	Instruction   string
	ExecutedSteps []string
	State         sim.StateSnapshot
	FailedStep    string
	ErrorMessage  string
}

// StepRepairer produces one corrected step description for a failed step.
type StepRepairer interface {
	Repair(ctx context.Context, req RepairRequest) (string, error)
}

// Translator converts a natural-language step into a ParsedAction.
// *translate.Translator satisfies this after wrapping its non-context
// method; see TranslatorFunc.
type Translator interface {
	Translate(raw string) (sim.ParsedAction, error)
}

// GeneratorFunc adapts a function to PlanGenerator.
type GeneratorFunc func(ctx context.Context, instruction string, state sim.StateSnapshot) ([]string, error)

func (f GeneratorFunc) Generate(ctx context.Context, instruction string, state sim.StateSnapshot) ([]string, error) {
	return f(ctx, instruction, state)
}

// RepairerFunc adapts a function to StepRepairer.
type RepairerFunc func(ctx context.Context, req RepairRequest) (string, error)

func (f RepairerFunc) Repair(ctx context.Context, req RepairRequest) (string, error) {
	return f(ctx, req)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(raw string) (sim.ParsedAction, error)

func (f TranslatorFunc) Translate(raw string) (sim.ParsedAction, error) {
	return f(raw)
}
