// Package eval runs planning episodes over task files and writes run
// artifacts: per-task results, a progress stream and final world states.
package eval

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed task_schema.json
var taskSchemaJSON string

var taskSchema = jsonschema.MustCompileString("task_schema.json", taskSchemaJSON)

// Task is one evaluation episode: an instruction, the goal predicates
// that define success, and the repair budget.
type Task struct {
	ID          string   `json:"id" yaml:"id"`
	Instruction string   `json:"instruction" yaml:"instruction"`
	Goals       []string `json:"goals" yaml:"goals"`
	MaxRepairs  int      `json:"max_repairs" yaml:"max_repairs"`
}

type taskFile struct {
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// LoadTasks reads every task file matching pattern (doublestar glob,
// e.g. "tasks/**/*.yaml"). Files are schema-checked before decoding;
// duplicate task IDs across files are rejected. Results are ordered by
// file path, then file order.
func LoadTasks(pattern string) ([]Task, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no task files match %q", pattern)
	}
	sort.Strings(paths)

	var tasks []Task
	seen := make(map[string]string)
	for _, path := range paths {
		loaded, err := loadTaskFile(path)
		if err != nil {
			return nil, err
		}
		for _, t := range loaded {
			if prev, dup := seen[t.ID]; dup {
				return nil, fmt.Errorf("%s: duplicate task id %q (first defined in %s)", path, t.ID, prev)
			}
			seen[t.ID] = path
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func loadTaskFile(path string) ([]Task, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	// Schema validation needs a JSON-shaped document regardless of the
	// on-disk format.
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		doc = normalizeYAML(doc)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported task file extension", path)
	}
	if err := taskSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var file taskFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	default:
		err = json.Unmarshal(raw, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file.Tasks, nil
}

// yaml.v3 decodes mappings as map[string]any already, but nested
// documents can still surface map[any]any via aliases; flatten for the
// schema validator.
func normalizeYAML(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
