package transform

import (
	"context"
	"fmt"

	"github.com/kaelzhang/module-walker/pkg/errors"
)

// Source is the unit flowing through a pipeline.
type Source struct {
	Filename string
	Content  []byte
	Kind     Kind           // Zero in a stage result keeps the previous kind
	Options  map[string]any // The running stage's configured options
}

// Func transforms one file. It must not retain in.Content after returning.
type Func func(ctx context.Context, in Source) (Source, error)

// Stage is a registered transform.
type Stage struct {
	Name    string         // Used in errors and logs
	Match   MatchRule      // Nil matches every file
	Options map[string]any // Passed to Run as Source.Options
	Run     Func
}

type compiledStage struct {
	Stage
	match func(string) bool
}

// Pipeline applies registered stages in order.
//
// Register must not be called concurrently with Run; Run itself is safe for
// concurrent use.
type Pipeline struct {
	stages []compiledStage
}

// NewPipeline creates a pipeline with the given stages registered in order.
func NewPipeline(stages ...Stage) (*Pipeline, error) {
	p := &Pipeline{}
	for _, s := range stages {
		if err := p.Register(s); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Register appends a stage. The match rule is compiled once here.
func (p *Pipeline) Register(s Stage) error {
	if s.Run == nil {
		return errors.New(errors.ErrCodeInvalidOptions, "stage %q has no Run function", s.Name)
	}
	match := func(string) bool { return true }
	if s.Match != nil {
		m, err := s.Match.compile()
		if err != nil {
			return err
		}
		match = m
	}
	if s.Name == "" {
		s.Name = fmt.Sprintf("stage-%d", len(p.stages)+1)
	}
	p.stages = append(p.stages, compiledStage{Stage: s, match: match})
	return nil
}

// Len returns the number of registered stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Run classifies filename and applies every matching stage to raw.
//
// A stage failure aborts the run with TRANSFORM_STAGE_ERROR attributed to
// filename. A file no stage matches passes through unchanged.
func (p *Pipeline) Run(ctx context.Context, filename string, raw []byte) (Source, error) {
	src := Source{Filename: filename, Content: raw, Kind: Classify(filename)}

	for _, s := range p.stages {
		if !s.match(filename) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Source{}, err
		}
		in := src
		in.Options = s.Options
		out, err := s.Run(ctx, in)
		if err != nil {
			return Source{}, errors.Wrap(errors.ErrCodeTransformStageError, err, "stage %s failed", s.Name).
				WithPath(filename)
		}
		src.Content = out.Content
		if out.Kind != 0 {
			src.Kind = out.Kind
		}
	}
	src.Options = nil
	return src, nil
}
