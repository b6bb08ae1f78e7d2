package planner

import (
	"regexp"
	"strings"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

// PlanStep is a translated action plus provenance. Provenance feeds the
// repair history and run artifacts; the simulator only ever sees Action.
type PlanStep struct {
	Action sim.ParsedAction `json:"action"`
	Text   string           `json:"text"`

	// Set when this step replaced a failed one during repair.
	OriginalText  string `json:"original_text,omitempty"`
	RepairAttempt int    `json:"repair_attempt,omitempty"`
	Repaired      bool   `json:"repaired,omitempty"`
}

// Model output arrives as a numbered or bulleted list; strip the markers.
var listMarker = regexp.MustCompile(`^[\d.\-*•)]+[\s.)]*`)

// ParseSteps splits raw model output into clean step strings. Blank
// lines and near-empty fragments are dropped.
func ParseSteps(raw string) []string {
	var steps []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if len(line) > 2 {
			steps = append(steps, line)
		}
	}
	return steps
}
