// Package recovery provides the tolerant fallback parser. It is only
// consulted after the strict parser failed, to show the user a best-effort
// tree in which unresolved elements are placeholder nodes.
//
// The fallback never reports errors: a lexing failure, a parse failure, a
// panic or an exceeded deadline all yield no tree.
package recovery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/minilang/pkg/parser"
)

// Defaults for New.
const (
	DefaultTimeout   = 250 * time.Millisecond
	DefaultMaxTokens = 20000
)

var grammar = sync.OnceValues(buildGrammar)

// Option configures a Parser.
type Option func(*Parser)

// WithTimeout bounds how long a single parse may take.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMaxTokens refuses inputs with more than n tokens.
func WithMaxTokens(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser is a configured fallback parser. It is safe for concurrent use.
type Parser struct {
	timeout   time.Duration
	maxTokens int
	logger    *slog.Logger
}

// New creates a fallback parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		timeout:   DefaultTimeout,
		maxTokens: DefaultMaxTokens,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses text with the default settings.
func Parse(ctx context.Context, text string) (*parser.Node, bool) {
	return New().Parse(ctx, text)
}

type outcome struct {
	tree *parser.Node
	ok   bool
}

// Parse returns a best-effort tree for text, or false when none could be
// produced in time.
func (p *Parser) Parse(ctx context.Context, text string) (*parser.Node, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	if n := len(parser.Tokenize(text)); n > p.maxTokens {
		p.logger.Debug("fallback parse refused", "tokens", n, "max_tokens", p.maxTokens)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// The parse is not interruptible; after a timeout it runs to completion
	// in the background, bounded by maxTokens. Buffered so it never blocks.
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Debug("fallback parse panicked", "panic", r)
				done <- outcome{}
			}
		}()
		done <- p.parse(text)
	}()

	select {
	case out := <-done:
		return out.tree, out.ok
	case <-ctx.Done():
		p.logger.Debug("fallback parse abandoned", "error", ctx.Err())
		return nil, false
	}
}

func (p *Parser) parse(text string) outcome {
	g, err := grammar()
	if err != nil {
		p.logger.Debug("fallback grammar unavailable", "error", err)
		return outcome{}
	}
	prog, err := g.ParseString("", text)
	if err != nil {
		p.logger.Debug("fallback parse failed", "error", err)
		return outcome{}
	}
	return outcome{tree: convertProgram(prog), ok: true}
}
