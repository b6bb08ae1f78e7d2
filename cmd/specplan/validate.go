package main

import (
	"fmt"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/eval"
	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

func validateCmd(args []string) {
	var tasksGlob string
	var layoutPath string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--tasks":
			i++
			if i >= len(args) {
				fatalf("--tasks requires a value")
			}
			tasksGlob = args[i]
		case "--layout":
			i++
			if i >= len(args) {
				fatalf("--layout requires a value")
			}
			layoutPath = args[i]
		default:
			fatalf("unknown flag %q", args[i])
		}
	}
	if tasksGlob == "" && layoutPath == "" {
		fatalf("--tasks or --layout is required")
	}

	if tasksGlob != "" {
		tasks, err := eval.LoadTasks(tasksGlob)
		if err != nil {
			fatalf("%v", err)
		}
		goals := sim.DefaultGoals()
		for _, task := range tasks {
			for _, g := range task.Goals {
				if _, _, err := goals.Evaluate(sim.DefaultLayout(), []string{g}); err != nil {
					fatalf("task %s: %v", task.ID, err)
				}
			}
		}
		fmt.Printf("%d tasks ok\n", len(tasks))
	}

	if layoutPath != "" {
		state, _, err := sim.LoadLayout(layoutPath)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("layout ok: %d objects, agent in %s\n", len(state.Objects), state.Agent.Location)
	}
}
