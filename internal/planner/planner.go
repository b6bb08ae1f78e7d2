// Package planner implements repair-first speculative validation: an
// initial plan is walked step by step against a cloned simulator, the
// first failing step is repaired in isolation, and validation restarts
// from the top until the plan passes or the repair budget runs out. The
// surviving plan is then committed to the real simulator.
package planner

import (
	"context"
	"fmt"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

// RepairPlanner orchestrates the generate → validate → repair → commit
// cycle. The generator, repairer and translator are external
// collaborators; the planner treats each call as an opaque blocking
// operation and never retries transport failures itself.
type RepairPlanner struct {
	generator PlanGenerator
	repairer  StepRepairer
	translate Translator
}

// NewRepairPlanner wires the three collaborators. All are required.
func NewRepairPlanner(g PlanGenerator, r StepRepairer, t Translator) (*RepairPlanner, error) {
	if g == nil {
		return nil, fmt.Errorf("planner: plan generator is required")
	}
	if r == nil {
		return nil, fmt.Errorf("planner: step repairer is required")
	}
	if t == nil {
		return nil, fmt.Errorf("planner: translator is required")
	}
	return &RepairPlanner{generator: g, repairer: r, translate: t}, nil
}

// Solve runs one planning episode against the given simulator. The
// returned error is reserved for configuration problems (an unknown
// goal predicate); every expected domain failure is reported inside
// PlanResult instead. maxRepairs bounds the repair cycles: the planner
// performs at most maxRepairs+1 validation walks, each on a fresh
// clone, restarting from step one after every repair.
func (p *RepairPlanner) Solve(ctx context.Context, instruction string, simulator *sim.Simulator, goals []string, maxRepairs int) (PlanResult, error) {
	if simulator == nil {
		return PlanResult{}, fmt.Errorf("planner: simulator is required")
	}
	if maxRepairs < 0 {
		maxRepairs = 0
	}

	res := PlanResult{Method: "repair_first"}

	// Generate the initial plan with full state context.
	rawSteps, err := p.generator.Generate(ctx, instruction, simulator.Snapshot())
	res.CollaboratorCalls++
	if err != nil {
		res.TerminalError = &TerminalError{Kind: ErrCollaborator, Message: err.Error()}
		return res, nil
	}

	steps := make([]PlanStep, 0, len(rawSteps))
	for i, text := range rawSteps {
		action, terr := p.translate.Translate(text)
		if terr != nil {
			// Untranslatable initial steps are terminal: the plan's
			// intent is unknown, so nothing is committed.
			res.TotalSteps = len(rawSteps)
			res.TerminalError = &TerminalError{
				Kind:    ErrTranslationFailed,
				Message: fmt.Sprintf("step %d %q: %v", i+1, text, terr),
			}
			return res, nil
		}
		steps = append(steps, PlanStep{Action: action, Text: text})
	}

	// Speculative validation with bounded repair. Each walk runs on a
	// fresh clone so a repaired early step is re-applied before later
	// steps are judged.
	exhausted := false
	for attempt := 0; attempt <= maxRepairs; attempt++ {
		res.ValidationAttempts++
		clone := simulator.Clone()

		failedIdx := -1
		var failure *sim.PreconditionError
		for i := range steps {
			if ok, perr := clone.Execute(steps[i].Action); !ok {
				failedIdx = i
				failure = perr
				break
			}
		}
		if failedIdx < 0 {
			break // full plan validates
		}
		if attempt == maxRepairs {
			res.RepairHistory = append(res.RepairHistory, RepairRecord{
				Attempt:      attempt,
				StepIndex:    failedIdx,
				OriginalText: steps[failedIdx].Text,
				ErrorMessage: failure.Error(),
			})
			exhausted = true
			break
		}

		executed := make([]string, 0, failedIdx)
		for _, s := range steps[:failedIdx] {
			executed = append(executed, s.Text)
		}
		repairedText, rerr := p.repairer.Repair(ctx, RepairRequest{
			Instruction:   instruction,
			ExecutedSteps: executed,
			State:         clone.Snapshot(),
			FailedStep:    steps[failedIdx].Text,
			ErrorMessage:  failure.Error(),
		})
		res.CollaboratorCalls++
		if rerr != nil {
			res.TotalSteps = len(steps)
			res.FinalSteps = steps
			res.TerminalError = &TerminalError{Kind: ErrCollaborator, Message: rerr.Error()}
			return res, nil
		}

		record := RepairRecord{
			Attempt:      attempt,
			StepIndex:    failedIdx,
			OriginalText: steps[failedIdx].Text,
			RepairedText: repairedText,
			ErrorMessage: failure.Error(),
		}
		action, terr := p.translate.Translate(repairedText)
		if terr != nil {
			// The attempt is spent; the plan keeps the failing step.
			record.TranslationFailed = true
			res.RepairHistory = append(res.RepairHistory, record)
			continue
		}
		res.RepairHistory = append(res.RepairHistory, record)
		steps[failedIdx] = PlanStep{
			Action:        action,
			Text:          repairedText,
			OriginalText:  record.OriginalText,
			RepairAttempt: attempt,
			Repaired:      true,
		}
	}

	// Commit whatever plan survived, even one that still fails
	// validation: the real execution's outcome is recorded honestly.
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
			if exhausted {
				res.TerminalError = &TerminalError{Kind: ErrRepairExhausted, Message: perr.Error()}
			}
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
