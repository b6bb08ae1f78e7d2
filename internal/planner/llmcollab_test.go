package planner

import (
	"context"
	"strings"
	"testing"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/llm"
	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

func capturePrompt(reply string, prompt *string) llm.Client {
	return llm.ClientFunc(func(ctx context.Context, req llm.GenerateRequest) (string, error) {
		*prompt = req.Prompt
		return reply, nil
	})
}

func TestLLMPlanGenerator_ContextualPromptIncludesState(t *testing.T) {
	var prompt string
	g := &LLMPlanGenerator{Client: capturePrompt("1. goto bathroom\n2. use soap", &prompt), IncludeState: true}

	steps, err := g.Generate(context.Background(), "wash hands", sim.NewSimulator().Snapshot())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(steps) != 2 || steps[0] != "goto bathroom" {
		t.Fatalf("steps %v", steps)
	}
	for _, want := range []string{"Task: wash hands", "Location: kitchen", "bathroom:", "goto, pickup, drop, toggle, use"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestLLMPlanGenerator_ZeroShotPromptOmitsState(t *testing.T) {
	var prompt string
	g := &LLMPlanGenerator{Client: capturePrompt("goto bathroom", &prompt)}

	if _, err := g.Generate(context.Background(), "wash hands", sim.NewSimulator().Snapshot()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(prompt, "Location:") {
		t.Fatalf("zero-shot prompt should not carry state:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Task: wash hands") {
		t.Fatalf("prompt missing task:\n%s", prompt)
	}
}

func TestLLMStepRepairer_PromptAndFirstLineReply(t *testing.T) {
	var prompt string
	r := &LLMStepRepairer{Client: capturePrompt("1. goto bedroom\nsome explanation", &prompt)}

	out, err := r.Repair(context.Background(), RepairRequest{
		Instruction:   "turn on the lamp",
		ExecutedSteps: []string{"goto kitchen"},
		State:         sim.NewSimulator().Snapshot(),
		FailedStep:    "pickup lamp",
		ErrorMessage:  "lamp is not in kitchen",
	})
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if out != "goto bedroom" {
		t.Fatalf("repair reply %q", out)
	}
	for _, want := range []string{"FAILED STEP: pickup lamp", "ERROR: lamp is not in kitchen", "1. goto kitchen", "Original task: turn on the lamp"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestLLMStepRepairer_NoExecutedSteps(t *testing.T) {
	var prompt string
	r := &LLMStepRepairer{Client: capturePrompt("drop cup", &prompt)}

	if _, err := r.Repair(context.Background(), RepairRequest{
		Instruction:  "make coffee",
		State:        sim.NewSimulator().Snapshot(),
		FailedStep:   "pickup plate",
		ErrorMessage: "hand not empty",
	}); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if !strings.Contains(prompt, "(none)") {
		t.Fatalf("prompt should note empty prefix:\n%s", prompt)
	}
}
