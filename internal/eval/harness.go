package eval

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/planner"
	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

// Solver is any planning method the harness can evaluate. Both
// *planner.RepairPlanner and *planner.OpenLoopPlanner satisfy it.
type Solver interface {
	Solve(ctx context.Context, instruction string, simulator *sim.Simulator, goals []string, maxRepairs int) (planner.PlanResult, error)
}

// SimFactory builds a fresh simulator for one task. Each task gets its
// own instance so episodes cannot contaminate each other.
type SimFactory func() *sim.Simulator

// TaskResult is one task's outcome plus the world state it ended in.
type TaskResult struct {
	TaskID     string             `json:"task_id"`
	Result     planner.PlanResult `json:"result"`
	DurationMS int64              `json:"duration_ms"`

	FinalState  *sim.WorldState `json:"-"`
	StateDigest string          `json:"state_digest"`
}

// RunReport aggregates a full evaluation run.
type RunReport struct {
	RunID     string       `json:"run_id"`
	StartedAt time.Time    `json:"started_at"`
	Results   []TaskResult `json:"results"`

	Solved int `json:"solved"`
	Failed int `json:"failed"`
}

// Harness runs a solver over a task list.
type Harness struct {
	solver  Solver
	newSim  SimFactory
	onEvent func(Event)
}

// Event is one progress record, streamed as the run advances.
type Event struct {
	RunID   string    `json:"run_id"`
	TS      time.Time `json:"ts"`
	Event   string    `json:"event"`
	TaskID  string    `json:"task_id,omitempty"`
	Success bool      `json:"success,omitempty"`
	Detail  string    `json:"detail,omitempty"`
}

// Option configures a Harness.
type Option func(*Harness)

// WithEventSink streams progress events to fn as the run advances.
func WithEventSink(fn func(Event)) Option {
	return func(h *Harness) { h.onEvent = fn }
}

// NewHarness wires a solver to a simulator factory.
func NewHarness(s Solver, f SimFactory, opts ...Option) (*Harness, error) {
	if s == nil {
		return nil, fmt.Errorf("eval: solver is required")
	}
	if f == nil {
		f = func() *sim.Simulator { return sim.NewSimulator() }
	}
	h := &Harness{solver: s, newSim: f, onEvent: func(Event) {}}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Run evaluates every task in order. Domain failures (bad plans,
// exhausted repairs, collaborator outages) are recorded per task and
// never abort the run; a configuration error from the solver (such as
// an unknown goal predicate in a task file) aborts immediately because
// every remaining task would hit it too.
func (h *Harness) Run(ctx context.Context, tasks []Task) (*RunReport, error) {
	report := &RunReport{
		RunID:     ulid.Make().String(),
		StartedAt: time.Now().UTC(),
	}
	h.onEvent(Event{RunID: report.RunID, TS: report.StartedAt, Event: "run_started", Detail: fmt.Sprintf("%d tasks", len(tasks))})

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		h.onEvent(Event{RunID: report.RunID, TS: time.Now().UTC(), Event: "task_started", TaskID: task.ID})

		simulator := h.newSim()
		start := time.Now()
		res, err := h.solver.Solve(ctx, task.Instruction, simulator, task.Goals, task.MaxRepairs)
		if err != nil {
			return report, fmt.Errorf("task %s: %w", task.ID, err)
		}

		tr := TaskResult{
			TaskID:      task.ID,
			Result:      res,
			DurationMS:  time.Since(start).Milliseconds(),
			FinalState:  simulator.ExportState(),
			StateDigest: simulator.Digest(),
		}
		report.Results = append(report.Results, tr)
		if res.Success {
			report.Solved++
		} else {
			report.Failed++
		}
		h.onEvent(Event{RunID: report.RunID, TS: time.Now().UTC(), Event: "task_finished", TaskID: task.ID, Success: res.Success})
	}

	h.onEvent(Event{RunID: report.RunID, TS: time.Now().UTC(), Event: "run_finished", Detail: fmt.Sprintf("%d/%d solved", report.Solved, len(tasks))})
	return report, nil
}
