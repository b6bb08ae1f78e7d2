package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/translate"
)

func scripted(steps ...string) PlanGenerator {
	return GeneratorFunc(func(ctx context.Context, instruction string, state sim.StateSnapshot) ([]string, error) {
		return steps, nil
	})
}

func repairs(replies ...string) StepRepairer {
	i := 0
	return RepairerFunc(func(ctx context.Context, req RepairRequest) (string, error) {
		if i >= len(replies) {
			return "", errors.New("scripted repairer out of replies")
		}
		r := replies[i]
		i++
		return r, nil
	})
}

func noRepairs(t *testing.T) StepRepairer {
	return RepairerFunc(func(ctx context.Context, req RepairRequest) (string, error) {
		t.Fatal("repairer should not be called")
		return "", nil
	})
}

func newPlanner(t *testing.T, g PlanGenerator, r StepRepairer) *RepairPlanner {
	t.Helper()
	p, err := NewRepairPlanner(g, r, translate.New())
	if err != nil {
		t.Fatalf("NewRepairPlanner: %v", err)
	}
	return p
}

func TestSolve_ValidPlanCommitsAndAchievesGoal(t *testing.T) {
	p := newPlanner(t, scripted("goto bathroom", "toggle faucet", "use faucet", "use soap"), noRepairs(t))
	s := sim.NewSimulator()

	res, err := p.Solve(context.Background(), "wash hands", s, []string{"hands_washed"}, 2)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.StepsExecuted != 4 || res.TotalSteps != 4 {
		t.Fatalf("steps %d/%d, want 4/4", res.StepsExecuted, res.TotalSteps)
	}
	if res.ValidationAttempts != 1 {
		t.Fatalf("validation attempts = %d, want 1", res.ValidationAttempts)
	}
	if res.CollaboratorCalls != 1 {
		t.Fatalf("collaborator calls = %d, want 1", res.CollaboratorCalls)
	}
	if len(res.RepairHistory) != 0 {
		t.Fatalf("unexpected repair history %+v", res.RepairHistory)
	}
	if len(res.AchievedGoals) != 1 || res.AchievedGoals[0] != "hands_washed" {
		t.Fatalf("achieved goals %v", res.AchievedGoals)
	}
	if res.TerminalError != nil {
		t.Fatalf("unexpected terminal error %v", res.TerminalError)
	}
}

func TestSolve_RepairRestartsValidationFromStepOne(t *testing.T) {
	// Step 2 fails: lamp lives in the bedroom, the agent is in the
	// kitchen after step 1. The repair replaces it with a move.
	var captured []RepairRequest
	rep := RepairerFunc(func(ctx context.Context, req RepairRequest) (string, error) {
		captured = append(captured, req)
		return "goto bedroom", nil
	})
	p := newPlanner(t, scripted("goto kitchen", "pickup lamp", "goto bedroom"), rep)
	s := sim.NewSimulator()

	res, err := p.Solve(context.Background(), "go to the bedroom", s, nil, 1)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.ValidationAttempts != 2 {
		t.Fatalf("validation attempts = %d, want 2", res.ValidationAttempts)
	}
	if res.CollaboratorCalls != 2 {
		t.Fatalf("collaborator calls = %d, want 2", res.CollaboratorCalls)
	}

	if len(captured) != 1 {
		t.Fatalf("repairer called %d times, want 1", len(captured))
	}
	req := captured[0]
	if req.FailedStep != "pickup lamp" {
		t.Fatalf("failed step = %q", req.FailedStep)
	}
	if len(req.ExecutedSteps) != 1 || req.ExecutedSteps[0] != "goto kitchen" {
		t.Fatalf("executed steps = %v", req.ExecutedSteps)
	}
	// The snapshot reflects the clone after the prefix, proving the
	// walk ran on a fresh clone and not on the live simulator.
	if req.State.Location != sim.RoomKitchen {
		t.Fatalf("repair snapshot location = %s, want kitchen", req.State.Location)
	}

	if len(res.RepairHistory) != 1 {
		t.Fatalf("repair history %+v", res.RepairHistory)
	}
	rec := res.RepairHistory[0]
	if rec.Attempt != 0 || rec.StepIndex != 1 || rec.OriginalText != "pickup lamp" || rec.RepairedText != "goto bedroom" {
		t.Fatalf("repair record %+v", rec)
	}
	if rec.ErrorMessage == "" {
		t.Fatal("repair record missing error message")
	}

	step := res.FinalSteps[1]
	if !step.Repaired || step.OriginalText != "pickup lamp" || step.Text != "goto bedroom" {
		t.Fatalf("repaired step provenance %+v", step)
	}
	if res.StepsExecuted != 3 {
		t.Fatalf("steps executed = %d, want 3", res.StepsExecuted)
	}
	if got := s.Snapshot().Location; got != sim.RoomBedroom {
		t.Fatalf("final location = %s, want bedroom", got)
	}
}

func TestSolve_ZeroRepairsCommitsInvalidPlan(t *testing.T) {
	p := newPlanner(t, scripted("pickup lamp"), noRepairs(t))
	s := sim.NewSimulator()

	res, err := p.Solve(context.Background(), "grab the lamp", s, nil, 0)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.StepsExecuted != 0 || res.TotalSteps != 1 {
		t.Fatalf("steps %d/%d, want 0/1", res.StepsExecuted, res.TotalSteps)
	}
	if res.ValidationAttempts != 1 {
		t.Fatalf("validation attempts = %d, want 1", res.ValidationAttempts)
	}
	if res.TerminalError == nil || res.TerminalError.Kind != ErrRepairExhausted {
		t.Fatalf("terminal error %v, want repair_exhausted", res.TerminalError)
	}
	if len(res.ExecutedTrace) != 1 || res.ExecutedTrace[0].Success || res.ExecutedTrace[0].Error == "" {
		t.Fatalf("executed trace %+v", res.ExecutedTrace)
	}
}

func TestSolve_RepairExhaustionBoundsWalks(t *testing.T) {
	// Every repair swaps one impossible step for another.
	p := newPlanner(t, scripted("pickup lamp"), repairs("pickup remote", "pickup soap"))
	s := sim.NewSimulator()

	res, err := p.Solve(context.Background(), "grab something far away", s, nil, 2)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.ValidationAttempts != 3 {
		t.Fatalf("validation attempts = %d, want maxRepairs+1 = 3", res.ValidationAttempts)
	}
	if res.CollaboratorCalls != 3 {
		t.Fatalf("collaborator calls = %d, want 3", res.CollaboratorCalls)
	}
	// Two repair cycles plus the exhaustion record.
	if len(res.RepairHistory) != 3 {
		t.Fatalf("repair history has %d records, want 3: %+v", len(res.RepairHistory), res.RepairHistory)
	}
	last := res.RepairHistory[2]
	if last.Attempt != 2 || last.RepairedText != "" {
		t.Fatalf("exhaustion record %+v", last)
	}
	if res.TerminalError == nil || res.TerminalError.Kind != ErrRepairExhausted {
		t.Fatalf("terminal error %v", res.TerminalError)
	}
}

func TestSolve_RepairTranslationFailureConsumesAttempt(t *testing.T) {
	p := newPlanner(t, scripted("pickup lamp"), repairs("zzz qqq xyzzy"))
	s := sim.NewSimulator()

	res, err := p.Solve(context.Background(), "grab the lamp", s, nil, 1)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.ValidationAttempts != 2 {
		t.Fatalf("validation attempts = %d, want 2", res.ValidationAttempts)
	}
	if len(res.RepairHistory) != 2 {
		t.Fatalf("repair history %+v", res.RepairHistory)
	}
	if !res.RepairHistory[0].TranslationFailed {
		t.Fatalf("first record should note translation failure: %+v", res.RepairHistory[0])
	}
	// The plan keeps the original failing step.
	if res.FinalSteps[0].Text != "pickup lamp" {
		t.Fatalf("final step = %q, want original", res.FinalSteps[0].Text)
	}
}

func TestSolve_GeneratorErrorIsTerminalWithoutCommit(t *testing.T) {
	g := GeneratorFunc(func(ctx context.Context, instruction string, state sim.StateSnapshot) ([]string, error) {
		return nil, errors.New("service unavailable")
	})
	p := newPlanner(t, g, noRepairs(t))
	s := sim.NewSimulator()
	before := s.Digest()

	res, err := p.Solve(context.Background(), "wash hands", s, []string{"hands_washed"}, 2)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Success || res.TerminalError == nil || res.TerminalError.Kind != ErrCollaborator {
		t.Fatalf("result %+v", res)
	}
	if s.Digest() != before {
		t.Fatal("simulator mutated despite terminal generation failure")
	}
}

func TestSolve_InitialTranslationFailureIsTerminal(t *testing.T) {
	p := newPlanner(t, scripted("goto bathroom", "frobnicate the widget"), noRepairs(t))
	s := sim.NewSimulator()
	before := s.Digest()

	res, err := p.Solve(context.Background(), "wash hands", s, []string{"hands_washed"}, 2)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Success || res.TerminalError == nil || res.TerminalError.Kind != ErrTranslationFailed {
		t.Fatalf("result %+v", res)
	}
	if res.TotalSteps != 2 {
		t.Fatalf("total steps = %d, want 2", res.TotalSteps)
	}
	if s.Digest() != before {
		t.Fatal("simulator mutated despite terminal translation failure")
	}
}

func TestSolve_RepairerErrorIsTerminalWithoutCommit(t *testing.T) {
	rep := RepairerFunc(func(ctx context.Context, req RepairRequest) (string, error) {
		return "", errors.New("rate limit exceeded")
	})
	p := newPlanner(t, scripted("pickup lamp"), rep)
	s := sim.NewSimulator()
	before := s.Digest()

	res, err := p.Solve(context.Background(), "grab the lamp", s, nil, 1)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.TerminalError == nil || res.TerminalError.Kind != ErrCollaborator {
		t.Fatalf("terminal error %v", res.TerminalError)
	}
	if s.Digest() != before {
		t.Fatal("simulator mutated despite terminal repair failure")
	}
}

func TestSolve_UnknownGoalIsConfigError(t *testing.T) {
	p := newPlanner(t, scripted("goto bathroom"), noRepairs(t))
	s := sim.NewSimulator()

	if _, err := p.Solve(context.Background(), "go wash", s, []string{"no_such_goal"}, 0); err == nil {
		t.Fatal("expected config error for unknown goal predicate")
	}
}

func TestSolve_EmptyPlanChecksGoalsOnly(t *testing.T) {
	p := newPlanner(t, scripted(), noRepairs(t))
	s := sim.NewSimulator()

	res, err := p.Solve(context.Background(), "do nothing", s, nil, 2)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Success || res.TotalSteps != 0 || res.ValidationAttempts != 1 {
		t.Fatalf("result %+v", res)
	}
}

func TestOpenLoop_SkipsUntranslatableAndStopsOnFailure(t *testing.T) {
	g := scripted("goto bathroom", "frobnicate the widget", "pickup lamp", "use soap")
	p, err := NewOpenLoopPlanner(g, translate.New(), "huang")
	if err != nil {
		t.Fatalf("NewOpenLoopPlanner: %v", err)
	}
	s := sim.NewSimulator()

	res, err := p.Solve(context.Background(), "wash hands", s, []string{"hands_washed"}, 0)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	// The gibberish step is dropped; lamp is in the bedroom so
	// execution stops there, before soap is ever used.
	if res.TotalSteps != 3 {
		t.Fatalf("total steps = %d, want 3", res.TotalSteps)
	}
	if res.StepsExecuted != 1 {
		t.Fatalf("steps executed = %d, want 1", res.StepsExecuted)
	}
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Method != "huang" {
		t.Fatalf("method = %q", res.Method)
	}
	if len(res.FailedGoals) != 1 || res.FailedGoals[0] != "hands_washed" {
		t.Fatalf("failed goals %v", res.FailedGoals)
	}
}
