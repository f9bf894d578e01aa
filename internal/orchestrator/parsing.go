package orchestrator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"neurones/internal/errors"
)

// Plan is the delegation decision produced by the primary agent's analysis.
type Plan struct {
	Delegate  bool      `json:"delegate"`
	Reasoning string    `json:"reasoning"`
	Subtasks  []Subtask `json:"subtasks"`
	SelfTask  string    `json:"self_task"`
}

// Subtask is one unit of delegated work. Priority is advisory
// ("high", "medium", "low"); dispatch order follows plan order.
type Subtask struct {
	Agent    string `json:"agent"`
	Prompt   string `json:"prompt"`
	Priority string `json:"priority"`
}

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ExtractPlan pulls a delegation plan out of raw agent output. The output
// may wrap the JSON in markdown fences or prose, and the JSON itself may be
// malformed in the ways language models produce; both are tolerated. All
// failures wrap errors.ErrPlanInvalid.
func ExtractPlan(text string) (*Plan, error) {
	block, ok := extractJSONBlock(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found in output", errors.ErrPlanInvalid)
	}

	repaired, err := jsonrepair.JSONRepair(block)
	if err != nil {
		return nil, fmt.Errorf("%w: unrepairable JSON: %v", errors.ErrPlanInvalid, err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(repaired), &probe); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", errors.ErrPlanInvalid, err)
	}
	if _, ok := probe["delegate"]; !ok {
		return nil, fmt.Errorf("%w: missing \"delegate\" field", errors.ErrPlanInvalid)
	}

	var plan Plan
	if err := json.Unmarshal([]byte(repaired), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPlanInvalid, err)
	}
	return &plan, nil
}

// extractJSONBlock returns the most likely JSON object in text: the first
// fenced code block when present, otherwise the outermost brace span.
func extractJSONBlock(text string) (string, bool) {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if candidate != "" {
			return candidate, true
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
