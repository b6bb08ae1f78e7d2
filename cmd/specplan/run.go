package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/eval"
)

func runCmd(args []string) {
	var task string
	var goals []string
	var maxRepairs int
	var method string
	var layoutPath string
	var planFile string
	var outDir string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--task":
			i++
			if i >= len(args) {
				fatalf("--task requires a value")
			}
			task = args[i]
		case "--goal":
			i++
			if i >= len(args) {
				fatalf("--goal requires a value")
			}
			goals = append(goals, args[i])
		case "--max-repairs":
			i++
			if i >= len(args) {
				fatalf("--max-repairs requires a value")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 {
				fatalf("--max-repairs requires a non-negative integer")
			}
			maxRepairs = n
		case "--method":
			i++
			if i >= len(args) {
				fatalf("--method requires a value")
			}
			method = args[i]
		case "--layout":
			i++
			if i >= len(args) {
				fatalf("--layout requires a value")
			}
			layoutPath = args[i]
		case "--plan":
			i++
			if i >= len(args) {
				fatalf("--plan requires a value")
			}
			planFile = args[i]
		case "--out":
			i++
			if i >= len(args) {
				fatalf("--out requires a value")
			}
			outDir = args[i]
		default:
			fatalf("unknown flag %q", args[i])
		}
	}
	if task == "" {
		fatalf("--task is required")
	}

	solver, err := buildSolver(solverOptions{method: method, planFile: planFile})
	if err != nil {
		fatalf("%v", err)
	}
	factory, err := simFactory(layoutPath)
	if err != nil {
		fatalf("%v", err)
	}

	simulator := factory()
	start := time.Now()
	res, err := solver.Solve(context.Background(), task, simulator, goals, maxRepairs)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("method:              %s\n", res.Method)
	fmt.Printf("success:             %v\n", res.Success)
	fmt.Printf("steps executed:      %d/%d\n", res.StepsExecuted, res.TotalSteps)
	fmt.Printf("validation attempts: %d\n", res.ValidationAttempts)
	fmt.Printf("collaborator calls:  %d\n", res.CollaboratorCalls)
	fmt.Printf("elapsed:             %s\n", time.Since(start).Round(time.Millisecond))
	if res.TerminalError != nil {
		fmt.Printf("terminal error:      %s\n", res.TerminalError)
	}
	for _, rec := range res.RepairHistory {
		fmt.Printf("repair %d (step %d): %q -> %q  [%s]\n", rec.Attempt, rec.StepIndex+1, rec.OriginalText, rec.RepairedText, rec.ErrorMessage)
	}
	for _, tr := range res.ExecutedTrace {
		mark := "ok"
		if !tr.Success {
			mark = "FAIL: " + tr.Error
		}
		fmt.Printf("  %d. %-30s %s\n", tr.StepIndex+1, tr.Text, mark)
	}
	if len(res.FailedGoals) > 0 {
		fmt.Printf("failed goals:        %v\n", res.FailedGoals)
	}

	if outDir != "" {
		report := &eval.RunReport{
			Results: []eval.TaskResult{{
				TaskID:      "run",
				Result:      res,
				DurationMS:  time.Since(start).Milliseconds(),
				FinalState:  simulator.ExportState(),
				StateDigest: simulator.Digest(),
			}},
		}
		report.StartedAt = start.UTC()
		if res.Success {
			report.Solved = 1
		} else {
			report.Failed = 1
		}
		if err := eval.WriteArtifacts(outDir, report); err != nil {
			fatalf("write artifacts: %v", err)
		}
	}

	if !res.Success {
		os.Exit(2)
	}
}
