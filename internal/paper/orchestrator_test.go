package paper

import (
	"context"
	"errors"
	"testing"

	"github.com/examforge/examforge/internal/ai"
)

func testPlan(t *testing.T, qt QuestionType, count int) Plan {
	t.Helper()
	plan, err := BuildPlan(testOutline(2), Rules{Items: []RuleItem{
		{Marks: 2, Count: count, Type: qt},
	}})
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	return plan
}

func TestOrchestratorGenerates(t *testing.T) {
	mock := ai.NewMockProvider(validMCQJSON)
	o := NewOrchestrator(OrchestratorConfig{Gateway: mock})

	plan := testPlan(t, MultipleChoice, 4)
	res, err := o.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(res.Questions) != 4 {
		t.Fatalf("questions = %d, want 4", len(res.Questions))
	}
	for i, q := range res.Questions {
		if q.Provenance != ProvenanceGenerated {
			t.Errorf("question %d provenance = %s, want generated", i, q.Provenance)
		}
		if q.UnitID != plan.Entries[i].UnitID {
			t.Errorf("question %d unit = %s, want %s (plan order)", i, q.UnitID, plan.Entries[i].UnitID)
		}
		if q.ID == "" {
			t.Errorf("question %d has no ID", i)
		}
	}
	if res.TotalMarks != 8 {
		t.Errorf("total marks = %d, want 8", res.TotalMarks)
	}
	if res.Coverage["unit_1"] != 2 || res.Coverage["unit_2"] != 2 {
		t.Errorf("coverage = %v", res.Coverage)
	}
	if res.TokensUsed <= 0 {
		t.Errorf("tokens used = %d, want > 0", res.TokensUsed)
	}
	if mock.Calls() != 4 {
		t.Errorf("provider calls = %d, want 4", mock.Calls())
	}
}

// recordingCompleter captures the requests the orchestrator sends.
type recordingCompleter struct {
	inner Completer
	reqs  []ai.CompletionRequest
}

func (r *recordingCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error) {
	r.reqs = append(r.reqs, req)
	return r.inner.Complete(ctx, req)
}

func TestOrchestratorRequestsJSONOutput(t *testing.T) {
	rec := &recordingCompleter{inner: ai.NewMockProvider(validMCQJSON)}
	o := NewOrchestrator(OrchestratorConfig{Gateway: rec, Concurrency: 1})

	if _, err := o.Run(context.Background(), testPlan(t, MultipleChoice, 2)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(rec.reqs) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(rec.reqs))
	}
	for i, req := range rec.reqs {
		if !req.JSONOutput {
			t.Errorf("call %d did not request structured JSON output", i)
		}
	}
}

func TestOrchestratorFallsBackAfterExhaustion(t *testing.T) {
	mock := &ai.MockProvider{Err: errors.New("provider down")}
	o := NewOrchestrator(OrchestratorConfig{Gateway: mock, MaxAttempts: 3})

	plan := testPlan(t, ShortAnswer, 4)
	res, err := o.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(res.Questions) != len(plan.Entries) {
		t.Fatalf("questions = %d, want plan length %d", len(res.Questions), len(plan.Entries))
	}
	seen := make(map[string]bool)
	for i, q := range res.Questions {
		if q.Provenance != ProvenanceFallback {
			t.Errorf("question %d provenance = %s, want fallback", i, q.Provenance)
		}
		if seen[q.Text] {
			t.Errorf("question %d repeats text %q", i, q.Text)
		}
		seen[q.Text] = true
	}
	if mock.Calls() != 3*len(plan.Entries) {
		t.Errorf("provider calls = %d, want %d", mock.Calls(), 3*len(plan.Entries))
	}
	if res.TotalMarks != 8 {
		t.Errorf("total marks = %d, want 8 (fallbacks preserve marks)", res.TotalMarks)
	}
}

func TestOrchestratorRetriesMalformedResponses(t *testing.T) {
	mock := &ai.MockProvider{Script: []ai.ScriptStep{
		{Response: "no json here at all"},
		{Err: errors.New("timeout")},
		{Response: validMCQJSON},
	}}
	o := NewOrchestrator(OrchestratorConfig{Gateway: mock, MaxAttempts: 3})

	plan := testPlan(t, MultipleChoice, 1)
	res, err := o.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Questions[0].Provenance != ProvenanceGenerated {
		t.Errorf("provenance = %s, want generated on third attempt", res.Questions[0].Provenance)
	}
	if mock.Calls() != 3 {
		t.Errorf("provider calls = %d, want 3", mock.Calls())
	}
}

func TestOrchestratorRejectsInconsistentAnswer(t *testing.T) {
	// Schema-valid but the answer marker matches no option.
	bad := `{
		"question": "Which structure gives O(1) stack push?",
		"options": ["A) Array", "B) Linked list", "C) Both", "D) Neither"],
		"correct_answer": "E",
		"explanation": "x"
	}`
	mock := ai.NewMockProvider(bad)
	o := NewOrchestrator(OrchestratorConfig{Gateway: mock, MaxAttempts: 2})

	plan := testPlan(t, MultipleChoice, 1)
	res, err := o.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Questions[0].Provenance != ProvenanceFallback {
		t.Errorf("provenance = %s, want fallback", res.Questions[0].Provenance)
	}
	if mock.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2", mock.Calls())
	}
}

func TestOrchestratorCancelledContext(t *testing.T) {
	mock := ai.NewMockProvider(validMCQJSON)
	o := NewOrchestrator(OrchestratorConfig{Gateway: mock})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.Run(ctx, testPlan(t, MultipleChoice, 2)); err == nil {
		t.Error("Run() error = nil with cancelled context, want abort")
	}
}

func TestOrchestratorEmptyPlan(t *testing.T) {
	o := NewOrchestrator(OrchestratorConfig{Gateway: ai.NewMockProvider("")})

	_, err := o.Run(context.Background(), Plan{})
	var structErr *StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("Run() error = %v, want StructuralError", err)
	}
}

func TestOrchestratorProgressEvents(t *testing.T) {
	mock := &ai.MockProvider{Err: errors.New("down")}

	var events []ProgressEvent
	o := NewOrchestrator(OrchestratorConfig{
		Gateway:     mock,
		MaxAttempts: 2,
		Concurrency: 1, // serialize so the event slice needs no locking
		OnProgress: func(ev ProgressEvent) {
			events = append(events, ev)
		},
	})

	if _, err := o.Run(context.Background(), testPlan(t, ShortAnswer, 1)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// working, retrying (after attempt 1), fallback.
	want := []ProgressStatus{ProgressWorking, ProgressRetrying, ProgressFallback}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want statuses %v", events, want)
	}
	for i, ev := range events {
		if ev.Status != want[i] {
			t.Errorf("event %d status = %s, want %s", i, ev.Status, want[i])
		}
		if ev.Total != 1 || ev.UnitID != "unit_1" {
			t.Errorf("event %d = %+v", i, ev)
		}
	}
}

func TestCheckTotalMarks(t *testing.T) {
	res := &Result{TotalMarks: 40}

	res.CheckTotalMarks(40)
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, want none on match", res.Warnings)
	}

	res.CheckTotalMarks(50)
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want mismatch warning", res.Warnings)
	}

	res.Warnings = nil
	res.CheckTotalMarks(0)
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, undeclared total must not warn", res.Warnings)
	}
}
