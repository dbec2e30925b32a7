// Package analyzer assembles the diagnostic pipeline: balance check, typo
// correction, optional structural repair, strict parse and, when that
// fails, the fallback parse.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/minilang/pkg/parser"
	"github.com/leapstack-labs/minilang/pkg/recovery"
	"github.com/leapstack-labs/minilang/pkg/repair"
	"github.com/leapstack-labs/minilang/pkg/typo"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. Typo notes from the parse are Warn records.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithFallbackTimeout bounds the fallback parse.
func WithFallbackTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		a.fallbackTimeout = d
	}
}

// WithMaxInputBytes rejects larger inputs with an error result. Zero
// disables the limit.
func WithMaxInputBytes(n int) Option {
	return func(a *Analyzer) {
		a.maxInputBytes = n
	}
}

// WithoutFallback disables the fallback parser.
func WithoutFallback() Option {
	return func(a *Analyzer) {
		a.noFallback = true
	}
}

// Analyzer runs analyses against a shared typo dictionary. It is safe
// for concurrent use.
type Analyzer struct {
	dict            *typo.Dictionary
	logger          *slog.Logger
	fallback        *recovery.Parser
	fallbackTimeout time.Duration
	maxInputBytes   int
	noFallback      bool

	parse func(src string, opts ...parser.Option) (*parser.Node, error)
}

// New creates an Analyzer over dict. A nil dict gets the built-in
// misspellings.
func New(dict *typo.Dictionary, opts ...Option) *Analyzer {
	if dict == nil {
		dict = typo.NewDefault()
	}
	a := &Analyzer{
		dict:            dict,
		logger:          slog.New(slog.DiscardHandler),
		fallbackTimeout: recovery.DefaultTimeout,
		parse:           parser.Parse,
	}
	for _, opt := range opts {
		opt(a)
	}
	if !a.noFallback {
		a.fallback = recovery.New(
			recovery.WithTimeout(a.fallbackTimeout),
			recovery.WithLogger(a.logger),
		)
	}
	return a
}

// Dictionary returns the shared typo dictionary.
func (a *Analyzer) Dictionary() *typo.Dictionary {
	return a.dict
}

// AddTypo adds a misspelling to the shared dictionary. It takes effect
// for every analysis started after it returns.
func (a *Analyzer) AddTypo(misspelling, canonical string) bool {
	ok := a.dict.Add(misspelling, canonical)
	a.logger.Debug("add typo", "typo", misspelling, "correction", canonical, "ok", ok)
	return ok
}

// Analyze runs the pipeline on code. It never panics; internal faults and
// oversize input produce an error result.
func (a *Analyzer) Analyze(ctx context.Context, code string, autoCorrect bool) (res *Result) {
	res = &Result{
		OriginalInput:    code,
		CorrectedText:    code,
		StructuralErrors: []string{},
		Corrections:      []typo.Correction{},
		AutoCorrect:      autoCorrect,
	}
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis panicked", "panic", r)
			res.failed(fmt.Sprintf("internal error during analysis: %v", r))
		}
	}()

	if a.maxInputBytes > 0 && len(code) > a.maxInputBytes {
		return res.failed(fmt.Sprintf("input of %d bytes exceeds the limit of %d bytes", len(code), a.maxInputBytes))
	}

	if errs := repair.Check(code); len(errs) > 0 {
		res.StructuralErrors = errs
	}

	// One snapshot for the whole call, so a concurrent AddTypo cannot
	// change the table halfway through.
	snap := a.dict.Snapshot()
	corrected, corrections := snap.RewriteText(code)
	if len(corrections) > 0 {
		res.Corrections = corrections
	}
	typoCorrected := corrected
	if autoCorrect {
		corrected = repair.Repair(corrected)
	}
	res.CorrectedText = corrected

	tree, err := a.parse(corrected, parser.WithTokenVisitor(typo.NewCorrector(snap, a.logger)))
	if err != nil {
		res.ParserError = err.Error()
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			res.ParseErr = perr
		}
		if a.fallback != nil {
			if partial, ok := a.fallback.Parse(ctx, typoCorrected); ok {
				tree = partial
				res.Fallback = true
			}
		}
	}
	if tree != nil {
		res.Tree = tree
		res.ParseTree = tree.Pretty()
	}

	res.Status = StatusError
	if err == nil && len(res.StructuralErrors) == 0 {
		res.Status = StatusSuccess
	}

	a.logger.Debug("analysis complete",
		"status", res.Status,
		"structural_errors", len(res.StructuralErrors),
		"corrections", len(res.Corrections),
		"fallback", res.Fallback)
	return res
}
