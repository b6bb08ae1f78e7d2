package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runCmd(os.Args[2:])
	case "eval":
		evalCmd(os.Args[2:])
	case "validate":
		validateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  specplan run --task <instruction> [--goal <predicate>]... [--max-repairs <n>] [--method repair_first|contextual|huang] [--layout <layout.yaml>] [--plan <steps.txt>] [--out <dir>]")
	fmt.Fprintln(os.Stderr, "  specplan eval --tasks <glob> [--method repair_first|contextual|huang] [--layout <layout.yaml>] [--min-interval <duration>] [--out <dir>]")
	fmt.Fprintln(os.Stderr, "  specplan validate --tasks <glob>")
	fmt.Fprintln(os.Stderr, "  specplan validate --layout <layout.yaml>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "environment:")
	fmt.Fprintln(os.Stderr, "  SPECPLAN_BASE_URL  OpenAI-compatible endpoint base URL")
	fmt.Fprintln(os.Stderr, "  SPECPLAN_API_KEY   API key for the endpoint")
	fmt.Fprintln(os.Stderr, "  SPECPLAN_MODEL     model identifier")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
