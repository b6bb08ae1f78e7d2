package planner

import (
	"context"
	"fmt"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

// OpenLoopPlanner is the no-feedback baseline: one generation call, no
// speculative validation, no repair. Untranslatable steps are skipped
// rather than terminal, which is the looser contract the baseline is
// measured under. Method names the variant ("huang" without state in
// the prompt, "contextual" with it).
type OpenLoopPlanner struct {
	generator PlanGenerator
	translate Translator
	method    string
}

// NewOpenLoopPlanner wires the baseline. method labels results.
func NewOpenLoopPlanner(g PlanGenerator, t Translator, method string) (*OpenLoopPlanner, error) {
	if g == nil {
		return nil, fmt.Errorf("planner: plan generator is required")
	}
	if t == nil {
		return nil, fmt.Errorf("planner: translator is required")
	}
	if method == "" {
		method = "open_loop"
	}
	return &OpenLoopPlanner{generator: g, translate: t, method: method}, nil
}

// Solve generates once and executes directly against the real
// simulator, stopping at the first failure.
func (p *OpenLoopPlanner) Solve(ctx context.Context, instruction string, simulator *sim.Simulator, goals []string, maxRepairs int) (PlanResult, error) {
	if simulator == nil {
		return PlanResult{}, fmt.Errorf("planner: simulator is required")
	}
	res := PlanResult{Method: p.method}

	rawSteps, err := p.generator.Generate(ctx, instruction, simulator.Snapshot())
	res.CollaboratorCalls++
	if err != nil {
		res.TerminalError = &TerminalError{Kind: ErrCollaborator, Message: err.Error()}
		return res, nil
	}

	var steps []PlanStep
	for _, text := range rawSteps {
		action, terr := p.translate.Translate(text)
		if terr != nil {
			continue // baseline skips what it cannot translate
		}
		steps = append(steps, PlanStep{Action: action, Text: text})
	}

	res.TotalSteps = len(steps)
	res.FinalSteps = steps
	execFailed := false
	for i := range steps {
		ok, perr := simulator.Execute(steps[i].Action)
		trace := StepTrace{StepIndex: i, Text: steps[i].Text, Success: ok}
		if !ok {
			trace.Error = perr.Error()
		}
		res.ExecutedTrace = append(res.ExecutedTrace, trace)
		if !ok {
			execFailed = true
			break
		}
		res.StepsExecuted++
	}

	achieved, failed, gerr := simulator.CheckGoal(goals)
	if gerr != nil {
		return PlanResult{}, gerr
	}
	res.AchievedGoals = achieved
	res.FailedGoals = failed
	res.Success = !execFailed && len(failed) == 0
	return res, nil
}
