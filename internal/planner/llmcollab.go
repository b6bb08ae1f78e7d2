package planner

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/llm"
	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

//go:embed plan_prompt.tmpl
var planPromptTmpl string

//go:embed repair_prompt.tmpl
var repairPromptTmpl string

var (
	planPrompt   = template.Must(template.New("plan").Parse(planPromptTmpl))
	repairPrompt = template.Must(template.New("repair").Parse(repairPromptTmpl))
)

const (
	planMaxTokens   = 300
	planTemperature = 0.2

	repairMaxTokens   = 50
	repairTemperature = 0.1
)

// LLMPlanGenerator asks a language model for an initial plan. With
// IncludeState unset it sends the task alone, which is how the
// open-loop baseline degrades planning quality on purpose.
type LLMPlanGenerator struct {
	Client       llm.Client
	IncludeState bool
}

func (g *LLMPlanGenerator) Generate(ctx context.Context, instruction string, state sim.StateSnapshot) ([]string, error) {
	var prompt string
	if g.IncludeState {
		var buf bytes.Buffer
		if err := planPrompt.Execute(&buf, struct {
			State       string
			Instruction string
		}{state.Describe(), instruction}); err != nil {
			return nil, fmt.Errorf("render plan prompt: %w", err)
		}
		prompt = buf.String()
	} else {
		prompt = fmt.Sprintf("Task: %s\n\nActions: goto, pickup, drop, toggle, use\nFormat: One simple action per line (e.g., \"goto bathroom\")\n\nPlan:", instruction)
	}

	raw, err := g.Client.Generate(ctx, llm.GenerateRequest{
		Prompt:      prompt,
		MaxTokens:   planMaxTokens,
		Temperature: planTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("plan generation: %w", err)
	}
	return ParseSteps(raw), nil
}

// LLMStepRepairer asks a language model for a single corrected step.
type LLMStepRepairer struct {
	Client llm.Client
}

func (r *LLMStepRepairer) Repair(ctx context.Context, req RepairRequest) (string, error) {
	executed := "  (none)"
	if len(req.ExecutedSteps) > 0 {
		var lines []string
		for i, s := range req.ExecutedSteps {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, s))
		}
		executed = strings.Join(lines, "\n")
	}

	var buf bytes.Buffer
	err := repairPrompt.Execute(&buf, struct {
		Instruction   string
		ExecutedSteps string
		State         string
		FailedStep    string
		ErrorMessage  string
	}{req.Instruction, executed, req.State.Describe(), req.FailedStep, req.ErrorMessage})
	if err != nil {
		return "", fmt.Errorf("render repair prompt: %w", err)
	}

	raw, err := r.Client.Generate(ctx, llm.GenerateRequest{
		Prompt:      buf.String(),
		MaxTokens:   repairMaxTokens,
		Temperature: repairTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("step repair: %w", err)
	}
	out := strings.TrimSpace(raw)
	if lines := ParseSteps(out); len(lines) > 0 {
		out = lines[0]
	}
	return out, nil
}
