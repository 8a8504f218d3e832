// Package engine runs the peptide matching pipeline: it builds the automaton
// once, streams the sequence database once and returns per-peptide matches and
// flank logos.
package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/PepMatch/pkg/annotation"
	"github.com/ChrisMcGann/PepMatch/pkg/automaton"
	"github.com/ChrisMcGann/PepMatch/pkg/core"
	"github.com/ChrisMcGann/PepMatch/pkg/flank"
	"github.com/ChrisMcGann/PepMatch/pkg/logo"
)

// Source yields sequence records one at a time. *fasta.Reader implements it.
type Source interface {
	Next() bool
	Record() *core.Record
	Err() error
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for progress and decode warnings.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMatchHook registers fn to receive every match as it is produced, in
// record then position order. An error from fn aborts the run.
func WithMatchHook(fn func(core.Match) error) Option {
	return func(e *Engine) {
		e.hook = fn
	}
}

// Engine matches a fixed peptide list against sequence databases.
// Runs may be repeated; each run gets fresh aggregation state.
type Engine struct {
	cfg       Config
	peptides  []string
	automaton *automaton.Automaton
	patternOf []int // query index -> automaton pattern
	extractor flank.Extractor
	decoder   annotation.Decoder
	logger    *log.Logger
	hook      func(core.Match) error
	state     atomic.Int32
}

// New validates cfg and the peptides and builds the automaton.
func New(peptides []string, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		peptides:  append([]string(nil), peptides...),
		extractor: flank.Extractor{Width: cfg.FlankWidth},
		decoder:   annotation.Decoder{Required: cfg.RequireAnnotation},
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	a, err := automaton.New(e.peptides)
	if err != nil {
		return nil, err
	}
	e.automaton = a
	e.patternOf = make([]int, len(e.peptides))
	for p := 0; p < a.Len(); p++ {
		for _, q := range a.Queries(p) {
			e.patternOf[q] = p
		}
	}

	e.setState(QueriesLoaded)
	e.logger.Debug("automaton built", "peptides", len(e.peptides), "patterns", a.Len(), "states", a.States())
	return e, nil
}

// State returns the lifecycle stage of the most recent run.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	e.logger.Debug("state", "now", s)
}

// Peptides returns the query peptides in input order.
func (e *Engine) Peptides() []string {
	return e.peptides
}

// Config returns the run configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// patternMatch is a match tagged with the automaton pattern that produced it.
type patternMatch struct {
	pattern int
	match   core.Match
}

// outcome is everything produced from one record.
type outcome struct {
	seq       int
	recordID  string
	residues  int
	annotated bool
	decodeErr error
	matches   []patternMatch
}

// process decodes, scans and extracts one record. It touches no shared state.
func (e *Engine) process(seq int, rec *core.Record) outcome {
	o := outcome{seq: seq, recordID: rec.ID, residues: rec.Len()}

	ann := core.NoAnnotation()
	if e.cfg.Annotated {
		decoded, err := e.decoder.Decode(rec.ID, rec.Description, rec.Len())
		if err != nil {
			o.decodeErr = err
		} else {
			ann = decoded
			o.annotated = ann.Present()
		}
	}

	for hit := range e.automaton.Scan(rec.Seq) {
		peptide := e.automaton.Pattern(hit.Pattern)
		end := hit.End + 1
		start := end - len(peptide)
		o.matches = append(o.matches, patternMatch{
			pattern: hit.Pattern,
			match:   e.extractor.Extract(rec, ann, peptide, start, end),
		})
	}
	return o
}

// run holds the accumulation state of one Run call.
type run struct {
	e         *Engine
	agg       *logo.Aggregator
	byPattern [][]core.Match
	report    *Report
}

func (r *run) collect(o outcome) error {
	st := &r.report.Stats
	st.Records++
	st.Residues += int64(o.residues)
	if o.annotated {
		st.Annotated++
	}
	if o.decodeErr != nil {
		st.DecodeFailures++
		r.report.DecodeFailures = append(r.report.DecodeFailures, o.decodeErr)
		r.e.logger.Warn("annotation ignored", "record", o.recordID, "err", o.decodeErr)
	}

	for _, pm := range o.matches {
		r.byPattern[pm.pattern] = append(r.byPattern[pm.pattern], pm.match)
		r.agg.Add(pm.pattern, pm.match.Sequence)
		st.Matches++
		if r.e.hook != nil {
			if err := r.e.hook(pm.match); err != nil {
				return fmt.Errorf("match hook: %w", err)
			}
		}
	}

	if every := r.e.cfg.ProgressEvery; every > 0 && st.Records%every == 0 {
		r.e.logger.Info("progress", "records", st.Records, "matches", st.Matches)
	}
	return nil
}

// Run streams src once and returns the report. It checks ctx between records
// and returns ctx.Err() when cancelled. A reader error, an empty database or a
// hook error is fatal; annotation decode failures are not.
func (e *Engine) Run(ctx context.Context, src Source) (*Report, error) {
	e.setState(Scanning)

	r := &run{
		e:         e,
		agg:       logo.New(e.cfg.FlankWidth, e.automaton.Len()),
		byPattern: make([][]core.Match, e.automaton.Len()),
		report:    &Report{},
	}

	var err error
	if e.cfg.Workers > 1 {
		err = e.scanParallel(ctx, src, r)
	} else {
		err = e.scanSequential(ctx, src, r)
	}
	if err != nil {
		e.setState(QueriesLoaded)
		return nil, err
	}
	if r.report.Stats.Records == 0 {
		e.setState(QueriesLoaded)
		return nil, core.ErrEmptyDatabase
	}

	r.report.Results = make([]Result, len(e.peptides))
	for i, p := range e.peptides {
		pi := e.patternOf[i]
		r.report.Results[i] = Result{
			Peptide: p,
			Index:   i,
			Mass:    core.NeutralMass(p),
			Matches: r.byPattern[pi],
			Logo:    r.agg.Logo(pi),
		}
		if len(r.byPattern[pi]) == 0 {
			r.report.Stats.Unmatched++
		}
	}

	e.setState(Done)
	st := r.report.Stats
	e.logger.Info("scan complete", "records", st.Records, "residues", st.Residues, "matches", st.Matches,
		"unmatched", st.Unmatched, "decode_failures", st.DecodeFailures)
	return r.report, nil
}

func (e *Engine) scanSequential(ctx context.Context, src Source, r *run) error {
	seq := 0
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.collect(e.process(seq, src.Record())); err != nil {
			return err
		}
		seq++
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("failed to read sequence database: %w", err)
	}
	return ctx.Err()
}

// scanParallel fans records out to workers and collects their outcomes back in
// record order, so the report is identical to a sequential scan.
func (e *Engine) scanParallel(ctx context.Context, src Source, r *run) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	type job struct {
		seq int
		rec *core.Record
	}
	jobs := make(chan job, e.cfg.Workers*2)
	results := make(chan outcome, e.cfg.Workers*2)

	g.Go(func() error {
		defer close(jobs)
		seq := 0
		for src.Next() {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobs <- job{seq: seq, rec: src.Record()}:
			}
			seq++
		}
		if err := src.Err(); err != nil {
			return fmt.Errorf("failed to read sequence database: %w", err)
		}
		return nil
	})

	var wg sync.WaitGroup
	for w := 0; w < e.cfg.Workers; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for j := range jobs {
				o := e.process(j.seq, j.rec)
				select {
				case results <- o:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var collectErr error
	pending := make(map[int]outcome)
	next := 0
	for o := range results {
		if collectErr != nil {
			continue
		}
		pending[o.seq] = o
		for {
			p, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := r.collect(p); err != nil {
				collectErr = err
				cancel()
				break
			}
		}
	}

	err := g.Wait()
	if collectErr != nil {
		return collectErr
	}
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}
