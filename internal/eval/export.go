package eval

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

// WriteArtifacts persists a finished run under dir:
//
//	results.json          full report
//	results.csv           one row per task, for spreadsheets
//	states/<task>.msgpack final world state per task
//
// The progress stream is written live during the run; see NewProgressLog.
func WriteArtifacts(dir string, report *RunReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(dir, "results.json"), report); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, "results.csv"), report); err != nil {
		return err
	}

	statesDir := filepath.Join(dir, "states")
	if err := os.MkdirAll(statesDir, 0o755); err != nil {
		return err
	}
	for _, tr := range report.Results {
		if tr.FinalState == nil {
			continue
		}
		b, err := sim.EncodeState(tr.FinalState)
		if err != nil {
			return fmt.Errorf("encode state for %s: %w", tr.TaskID, err)
		}
		path := filepath.Join(statesDir, tr.TaskID+".msgpack")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var csvHeader = []string{
	"task_id", "method", "success", "steps_executed", "total_steps",
	"collaborator_calls", "validation_attempts", "repairs",
	"terminal_error", "state_digest", "duration_ms",
}

func writeCSV(path string, report *RunReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return err
	}
	for _, tr := range report.Results {
		terminal := ""
		if tr.Result.TerminalError != nil {
			terminal = string(tr.Result.TerminalError.Kind)
		}
		row := []string{
			tr.TaskID,
			tr.Result.Method,
			strconv.FormatBool(tr.Result.Success),
			strconv.Itoa(tr.Result.StepsExecuted),
			strconv.Itoa(tr.Result.TotalSteps),
			strconv.Itoa(tr.Result.CollaboratorCalls),
			strconv.Itoa(tr.Result.ValidationAttempts),
			strconv.Itoa(len(tr.Result.RepairHistory)),
			terminal,
			tr.StateDigest,
			strconv.FormatInt(tr.DurationMS, 10),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ProgressLog appends run events to progress.ndjson as they happen, so
// an interrupted run still leaves a usable trail.
type ProgressLog struct {
	f   *os.File
	enc *json.Encoder
}

// NewProgressLog opens (creating dir if needed) progress.ndjson under dir.
func NewProgressLog(dir string) (*ProgressLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "progress.ndjson"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &ProgressLog{f: f, enc: json.NewEncoder(f)}, nil
}

// Record writes one event line. Errors are swallowed: a full disk must
// not abort the run the log exists to describe.
func (p *ProgressLog) Record(ev Event) {
	_ = p.enc.Encode(ev)
}

// Close releases the underlying file.
func (p *ProgressLog) Close() error { return p.f.Close() }
