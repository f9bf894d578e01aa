package orchestrator

import (
	"testing"

	"neurones/internal/errors"
)

func TestExtractPlanCleanJSON(t *testing.T) {
	plan, err := ExtractPlan(`{"delegate": true, "reasoning": "split it", "subtasks": [{"agent": "gemini", "prompt": "do half", "priority": "high"}], "self_task": ""}`)
	if err != nil {
		t.Fatalf("ExtractPlan() error = %v", err)
	}
	if !plan.Delegate {
		t.Errorf("Delegate = false, want true")
	}
	if plan.Reasoning != "split it" {
		t.Errorf("Reasoning = %q, want %q", plan.Reasoning, "split it")
	}
	if len(plan.Subtasks) != 1 {
		t.Fatalf("len(Subtasks) = %d, want 1", len(plan.Subtasks))
	}
	if plan.Subtasks[0].Agent != "gemini" || plan.Subtasks[0].Prompt != "do half" {
		t.Errorf("Subtasks[0] = %+v", plan.Subtasks[0])
	}
}

func TestExtractPlanFencedJSON(t *testing.T) {
	text := "Here is my plan:\n```json\n{\"delegate\": false, \"reasoning\": \"simple\", \"subtasks\": [], \"self_task\": \"\"}\n```\nDone."
	plan, err := ExtractPlan(text)
	if err != nil {
		t.Fatalf("ExtractPlan() error = %v", err)
	}
	if plan.Delegate {
		t.Errorf("Delegate = true, want false")
	}
	if plan.Reasoning != "simple" {
		t.Errorf("Reasoning = %q, want %q", plan.Reasoning, "simple")
	}
}

func TestExtractPlanProseWrapped(t *testing.T) {
	text := `Sure! Based on the request, {"delegate": true, "reasoning": "parallel", "subtasks": [{"agent": "codex", "prompt": "write tests", "priority": "medium"}], "self_task": "review"} is my decision.`
	plan, err := ExtractPlan(text)
	if err != nil {
		t.Fatalf("ExtractPlan() error = %v", err)
	}
	if plan.SelfTask != "review" {
		t.Errorf("SelfTask = %q, want %q", plan.SelfTask, "review")
	}
}

func TestExtractPlanRepairsMalformedJSON(t *testing.T) {
	// Trailing comma and single quotes, typical LLM output defects.
	text := `{'delegate': true, 'reasoning': 'fix quoting', 'subtasks': [],}`
	plan, err := ExtractPlan(text)
	if err != nil {
		t.Fatalf("ExtractPlan() error = %v", err)
	}
	if !plan.Delegate {
		t.Errorf("Delegate = false, want true")
	}
}

func TestExtractPlanErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no JSON at all", "I could not produce a plan, sorry."},
		{"empty string", ""},
		{"JSON array not object", `[1, 2, 3]`},
		{"object missing delegate", `{"reasoning": "no decision field"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractPlan(tt.text)
			if err == nil {
				t.Fatal("ExtractPlan() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrPlanInvalid) {
				t.Errorf("errors.Is(err, ErrPlanInvalid) = false for %v", err)
			}
		})
	}
}

func TestExtractJSONBlockPrefersFence(t *testing.T) {
	text := "{\"decoy\": 1}\n```json\n{\"delegate\": false}\n```"
	block, ok := extractJSONBlock(text)
	if !ok {
		t.Fatal("extractJSONBlock() ok = false, want true")
	}
	if block != `{"delegate": false}` {
		t.Errorf("block = %q, want fenced content", block)
	}
}
