package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/eval"
)

func evalCmd(args []string) {
	var tasksGlob string
	var method string
	var layoutPath string
	var outDir string
	var minInterval time.Duration

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--tasks":
			i++
			if i >= len(args) {
				fatalf("--tasks requires a value")
			}
			tasksGlob = args[i]
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
		case "--out":
			i++
			if i >= len(args) {
				fatalf("--out requires a value")
			}
			outDir = args[i]
		case "--min-interval":
			i++
			if i >= len(args) {
				fatalf("--min-interval requires a value")
			}
			d, err := time.ParseDuration(args[i])
			if err != nil || d < 0 {
				fatalf("--min-interval requires a duration like 2s")
			}
			minInterval = d
		default:
			fatalf("unknown flag %q", args[i])
		}
	}
	if tasksGlob == "" {
		fatalf("--tasks is required")
	}
	if outDir == "" {
		outDir = "specplan-out"
	}

	tasks, err := eval.LoadTasks(tasksGlob)
	if err != nil {
		fatalf("%v", err)
	}

	solver, err := buildSolver(solverOptions{method: method, minInterval: minInterval})
	if err != nil {
		fatalf("%v", err)
	}
	factory, err := simFactory(layoutPath)
	if err != nil {
		fatalf("%v", err)
	}

	progress, err := eval.NewProgressLog(outDir)
	if err != nil {
		fatalf("%v", err)
	}
	defer progress.Close()

	harness, err := eval.NewHarness(solver, factory, eval.WithEventSink(func(ev eval.Event) {
		progress.Record(ev)
		if ev.TaskID != "" {
			fmt.Printf("%s %s\n", ev.Event, ev.TaskID)
		}
	}))
	if err != nil {
		fatalf("%v", err)
	}

	report, err := harness.Run(context.Background(), tasks)
	if err != nil {
		fatalf("%v", err)
	}
	if err := eval.WriteArtifacts(outDir, report); err != nil {
		fatalf("write artifacts: %v", err)
	}

	fmt.Printf("\nrun %s: %d/%d solved\n", report.RunID, report.Solved, len(tasks))
	fmt.Printf("artifacts written to %s\n", outDir)
	if report.Failed > 0 {
		os.Exit(2)
	}
}
