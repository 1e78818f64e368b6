package paper

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/examforge/examforge/internal/ai"
)

const (
	defaultMaxAttempts = 3
	defaultConcurrency = 4
	defaultCallTimeout = 45 * time.Second
)

// Completer is the slice of the AI gateway the orchestrator needs.
// *ai.Router satisfies it.
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error)
}

// ProgressStatus tracks one plan entry through the generation state machine.
type ProgressStatus string

const (
	ProgressWorking   ProgressStatus = "working"
	ProgressRetrying  ProgressStatus = "retrying"
	ProgressGenerated ProgressStatus = "generated"
	ProgressFallback  ProgressStatus = "fallback"
)

// ProgressEvent reports the state of one plan entry during a run. Events may
// be emitted concurrently from multiple goroutines.
type ProgressEvent struct {
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	UnitID    string         `json:"unit_id"`
	UnitTitle string         `json:"unit_title"`
	Attempt   int            `json:"attempt,omitempty"`
	Status    ProgressStatus `json:"status"`
}

// Result is the outcome of one full generation run.
type Result struct {
	Questions  []Question
	Coverage   Coverage
	TotalMarks int
	Warnings   []string
	TokensUsed int
}

// OrchestratorConfig holds dependencies and tuning for an Orchestrator.
type OrchestratorConfig struct {
	Gateway     Completer
	MaxAttempts int           // provider attempts per question (default 3)
	Concurrency int           // concurrent generation calls (default 4)
	CallTimeout time.Duration // per provider call (default 45s)
	OnProgress  func(ProgressEvent)
	Usage       *ai.UsageMeter
	Logger      *slog.Logger
}

// Orchestrator produces one Generated Question per Allocation Plan entry.
// Each entry runs a three-state machine: up to MaxAttempts provider calls,
// any malformed or failed response counting as a retry; once attempts are
// exhausted a deterministic fallback question is synthesized from the unit's
// topics. No entry is ever dropped: output length always equals plan length.
type Orchestrator struct {
	gateway     Completer
	maxAttempts int
	concurrency int
	callTimeout time.Duration
	onProgress  func(ProgressEvent)
	usage       *ai.UsageMeter
	log         *slog.Logger
}

// NewOrchestrator creates an Orchestrator. Gateway is required.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	o := &Orchestrator{
		gateway:     cfg.Gateway,
		maxAttempts: cfg.MaxAttempts,
		concurrency: cfg.Concurrency,
		callTimeout: cfg.CallTimeout,
		onProgress:  cfg.OnProgress,
		usage:       cfg.Usage,
		log:         cfg.Logger,
	}
	if o.maxAttempts <= 0 {
		o.maxAttempts = defaultMaxAttempts
	}
	if o.concurrency <= 0 {
		o.concurrency = defaultConcurrency
	}
	if o.callTimeout <= 0 {
		o.callTimeout = defaultCallTimeout
	}
	if o.usage == nil {
		o.usage = ai.NewUsageMeter()
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	return o
}

// Run executes the plan. Entries run with bounded concurrency but the output
// sequence always matches plan order: results are keyed by plan index, not
// arrival order. Coverage is assembled from per-entry results after all
// goroutines finish, so no shared map is mutated concurrently. If ctx is
// canceled the run returns an error and no partial result.
func (o *Orchestrator) Run(ctx context.Context, plan Plan) (*Result, error) {
	if len(plan.Entries) == 0 {
		return nil, &StructuralError{Stage: StageGenerate, Msg: "empty allocation plan"}
	}

	questions := make([]Question, len(plan.Entries))
	seq := &fallbackSeq{counts: make(map[string]int)}
	tokensBefore := o.usage.Total()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, entry := range plan.Entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			questions[i] = o.generateOne(gctx, i, len(plan.Entries), entry, seq)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		// Aborted run: the whole paper is dropped, never a partial one.
		return nil, fmt.Errorf("generation run aborted: %w", err)
	}

	res := o.assemble(plan, questions)
	res.TokensUsed = o.usage.Total() - tokensBefore
	return res, nil
}

// generateOne drives the per-entry state machine. It always returns a
// question; provider failures never escape.
func (o *Orchestrator) generateOne(ctx context.Context, index, total int, entry Allocation, seq *fallbackSeq) Question {
	o.emit(ProgressEvent{Index: index, Total: total, UnitID: entry.UnitID, UnitTitle: entry.UnitTitle, Status: ProgressWorking})

	prompt := BuildPrompt(entry)
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		q, err := o.attempt(ctx, prompt, entry)
		if err == nil {
			o.emit(ProgressEvent{Index: index, Total: total, UnitID: entry.UnitID, UnitTitle: entry.UnitTitle, Attempt: attempt, Status: ProgressGenerated})
			return q
		}
		if ctx.Err() != nil {
			break
		}
		o.log.Warn("question attempt failed",
			"unit", entry.UnitID,
			"type", entry.Type,
			"attempt", attempt,
			"error", err,
		)
		if attempt < o.maxAttempts {
			o.emit(ProgressEvent{Index: index, Total: total, UnitID: entry.UnitID, UnitTitle: entry.UnitTitle, Attempt: attempt, Status: ProgressRetrying})
		}
	}

	o.log.Warn("attempts exhausted, using fallback question", "unit", entry.UnitID, "type", entry.Type)
	o.emit(ProgressEvent{Index: index, Total: total, UnitID: entry.UnitID, UnitTitle: entry.UnitTitle, Status: ProgressFallback})
	return buildFallback(entry, seq.next(entry.UnitID))
}

// attempt issues one provider call and validates the response. Timeouts and
// malformed output are retry outcomes, reported as errors to the caller.
func (o *Orchestrator) attempt(ctx context.Context, prompt string, entry Allocation) (Question, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	resp, err := o.gateway.Complete(callCtx, ai.CompletionRequest{
		Messages:   []ai.Message{{Role: "user", Content: prompt}},
		JSONOutput: true,
	})
	if err != nil {
		return Question{}, fmt.Errorf("provider: %w", err)
	}
	o.usage.Record(resp.TotalTokens())

	d, err := parseDraft(resp.Content, entry.Type)
	if err != nil {
		return Question{}, err
	}
	if err := acceptDraft(d, entry.Type); err != nil {
		return Question{}, err
	}

	q := Question{
		ID:            generateID(),
		UnitID:        entry.UnitID,
		UnitTitle:     entry.UnitTitle,
		Text:          d.Question,
		Marks:         entry.Marks,
		Type:          entry.Type,
		Difficulty:    entry.Difficulty,
		Options:       d.Options,
		CorrectAnswer: d.CorrectAnswer,
		Explanation:   d.Explanation,
		Provenance:    ProvenanceGenerated,
	}
	q.CourseOutcome, q.BloomsLevel = OutcomeLabels(entry.Marks)
	return q, nil
}

// assemble derives coverage and the total-marks checksum from the finished
// questions and attaches validation warnings.
func (o *Orchestrator) assemble(plan Plan, questions []Question) *Result {
	res := &Result{
		Questions: questions,
		Coverage:  make(Coverage, len(plan.Coverage)),
	}
	for _, q := range questions {
		res.Coverage[q.UnitID]++
		res.TotalMarks += q.Marks
	}

	for unitID, allocated := range plan.Coverage {
		if allocated > 0 && res.Coverage[unitID] == 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("unit %s received no questions despite %d allocations", unitID, allocated))
		}
	}
	return res
}

// CheckTotalMarks compares the run's marks checksum against the caller's
// declared total. A mismatch is a warning, not a failure: fallback
// substitution preserves marks, so a mismatch means the caller's rule items
// did not add up.
func (r *Result) CheckTotalMarks(declared int) {
	if declared > 0 && r.TotalMarks != declared {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("total marks %d do not match declared total %d", r.TotalMarks, declared))
	}
}

// fallbackSeq counts fallback questions per unit so successive fallbacks for
// one unit walk its topic list instead of repeating the first topic.
type fallbackSeq struct {
	mu     sync.Mutex
	counts map[string]int
}

func (s *fallbackSeq) next(unitID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.counts[unitID]
	s.counts[unitID] = n + 1
	return n
}

func (o *Orchestrator) emit(ev ProgressEvent) {
	if o.onProgress != nil {
		o.onProgress(ev)
	}
}

func generateID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("q_%x", b)
}
