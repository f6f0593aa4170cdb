package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// Step is a pipeline state. Runs move strictly forward:
// Start → Retrieving → Answering → Done.
type Step int

const (
	// StepStart is the state of a fresh run.
	StepStart Step = iota
	// StepRetrieving fetches context for the question.
	StepRetrieving
	// StepAnswering composes the answer from the context.
	StepAnswering
	// StepDone is terminal.
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepStart:
		return "start"
	case StepRetrieving:
		return "retrieving"
	case StepAnswering:
		return "answering"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

const (
	// Apology is the answer when retrieval finds nothing.
	Apology = "Sorry, I don't know."

	answerPrefixLen = 100
)

// State is the per-run record. A new one is created for every Ask.
type State struct {
	Question string
	Context  []string
	Answer   string
	Step     Step
}

// Retriever looks up context for a question.
type Retriever interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// transition handles one step and returns the next.
type transition func(ctx context.Context, st *State) (Step, error)

// Pipeline answers questions from retrieved context. It holds no per-run
// state and is safe for concurrent use.
type Pipeline struct {
	retriever Retriever
	limit     int
	logger    *zap.Logger
	steps     map[Step]transition
}

// New creates a pipeline that retrieves up to limit context entries per question.
func New(retriever Retriever, limit int, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{retriever: retriever, limit: limit, logger: logger}
	p.steps = map[Step]transition{
		StepStart:      p.start,
		StepRetrieving: p.retrieve,
		StepAnswering:  p.answer,
	}
	return p
}

// Ask runs the pipeline to completion. Any step error aborts the run;
// the returned State then shows the step that failed.
func (p *Pipeline) Ask(ctx context.Context, question string) (State, error) {
	st := State{Question: question, Context: []string{}, Step: StepStart}

	for st.Step != StepDone {
		step, ok := p.steps[st.Step]
		if !ok {
			metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
			return st, fmt.Errorf("no transition from %s", st.Step)
		}
		next, err := step(ctx, &st)
		if err != nil {
			metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
			p.logger.Error("Pipeline run aborted",
				zap.Stringer("step", st.Step),
				zap.Error(err),
			)
			return st, fmt.Errorf("%s: %w", st.Step, err)
		}
		st.Step = next
	}

	outcome := "answered"
	if len(st.Context) == 0 {
		outcome = "apology"
	}
	metrics.PipelineRunsTotal.WithLabelValues(outcome).Inc()
	p.logger.Debug("Pipeline run completed",
		zap.Int("context_len", len(st.Context)),
		zap.String("outcome", outcome),
	)

	return st, nil
}

func (p *Pipeline) start(_ context.Context, _ *State) (Step, error) {
	return StepRetrieving, nil
}

func (p *Pipeline) retrieve(ctx context.Context, st *State) (Step, error) {
	docs, err := p.retriever.Search(ctx, st.Question, p.limit)
	if err != nil {
		return StepRetrieving, fmt.Errorf("retrieve context: %w", err)
	}
	if docs != nil {
		st.Context = docs
	}
	return StepAnswering, nil
}

func (p *Pipeline) answer(_ context.Context, st *State) (Step, error) {
	st.Answer = Answer(st.Context)
	return StepDone, nil
}

// Answer composes the reply for a retrieved context: a quote of the first
// entry's first 100 characters, or Apology when the context is empty.
func Answer(docs []string) string {
	if len(docs) == 0 {
		return Apology
	}
	return fmt.Sprintf("I found this: '%s...'", prefix(docs[0], answerPrefixLen))
}

// prefix returns the first n characters of s without splitting a UTF-8 sequence.
func prefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
