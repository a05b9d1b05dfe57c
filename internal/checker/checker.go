// Package checker runs WCAG contrast checks over a selection of document
// nodes and keeps the session state needed to highlight the failures.
package checker

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/jmylchreest/contrastcheck/internal/colour"
	"github.com/jmylchreest/contrastcheck/internal/document"
	"github.com/jmylchreest/contrastcheck/internal/resolve"
	"github.com/jmylchreest/contrastcheck/internal/wcag"
)

// DefaultTextLimit is the number of characters of each text kept in a result.
const DefaultTextLimit = 100

// Host is the document whose selection the checker reads and replaces.
type Host interface {
	Selection() []*document.Node
	SetSelection(nodes []*document.Node) error
}

// Option configures a Checker.
type Option func(*Checker)

// WithPolicy sets the threshold policy.
func WithPolicy(p wcag.Policy) Option {
	return func(c *Checker) { c.policy = p }
}

// WithResolverOptions sets the background walk bounds.
func WithResolverOptions(opts resolve.Options) Option {
	return func(c *Checker) { c.resolver = resolve.New(opts) }
}

// WithTextLimit sets how many characters of each text are kept.
func WithTextLimit(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.textLimit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDebug attaches colour provenance to every result.
func WithDebug(enabled bool) Option {
	return func(c *Checker) { c.debug = enabled }
}

// Checker owns one check session. It is not safe for concurrent use; all
// calls are expected to come from a single loop.
type Checker struct {
	host      Host
	resolver  *resolve.Resolver
	policy    wcag.Policy
	textLimit int
	debug     bool
	logger    hclog.Logger
	now       func() time.Time

	// results is nil until the first successful check.
	results     []Result
	highlighted []*document.Node
}

// New creates a Checker bound to host.
func New(host Host, opts ...Option) *Checker {
	c := &Checker{
		host:      host,
		resolver:  resolve.New(resolve.DefaultOptions()),
		policy:    wcag.PolicyStandard,
		textLimit: DefaultTextLimit,
		logger:    hclog.NewNullLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the threshold policy in use.
func (c *Checker) Policy() wcag.Policy {
	return c.policy
}

// Results returns the results of the last successful check.
func (c *Checker) Results() []Result {
	return append([]Result(nil), c.results...)
}

// Highlighted returns the nodes selected by the last successful highlight.
func (c *Checker) Highlighted() []*document.Node {
	return append([]*document.Node(nil), c.highlighted...)
}

// CheckSelection runs a check over the host's current selection.
func (c *Checker) CheckSelection() (*Summary, error) {
	return c.RunCheck(c.host.Selection())
}

// RunCheck checks every visible text node under selection.
//
// On success the results replace the previous session and any remembered
// highlight is forgotten. On error the previous session is kept.
func (c *Checker) RunCheck(selection []*document.Node) (*Summary, error) {
	if len(selection) == 0 {
		return nil, ErrEmptySelection
	}

	start := c.now()
	texts := document.CollectText(selection)
	if len(texts) == 0 {
		return nil, ErrNoTextFound
	}

	c.logger.Debug("checking text nodes", "selected", len(selection), "texts", len(texts))

	summary := &Summary{RunID: uuid.New()}
	skipped := 0
	for _, n := range texts {
		res, ok := c.check(n)
		if !ok {
			skipped++
			continue
		}
		switch {
		case res.Err != nil:
			summary.ErrorCount++
			c.logger.Warn("failed to resolve text node", "node", n.ID, "error", res.Err)
		case !res.AA:
			summary.FailedCount++
		}
		summary.Results = append(summary.Results, res)
	}

	if len(summary.Results) == summary.ErrorCount {
		c.logger.Debug("no scorable text", "skipped", skipped, "errors", summary.ErrorCount)
		return nil, ErrNoScorableText
	}

	summary.TotalTexts = len(summary.Results)
	summary.PassedCount = summary.TotalTexts - summary.FailedCount - summary.ErrorCount
	summary.ProcessingTime = c.now().Sub(start)

	c.results = summary.Results
	c.highlighted = nil

	c.logger.Info("check complete",
		"run_id", summary.RunID,
		"total", summary.TotalTexts,
		"passed", summary.PassedCount,
		"failed", summary.FailedCount,
		"errors", summary.ErrorCount,
		"skipped", skipped,
		"duration", summary.ProcessingTime)

	return summary, nil
}

// HighlightFailing replaces the host selection with every text that failed AA
// in the last check and still exists.
func (c *Checker) HighlightFailing() (HighlightOutcome, error) {
	if c.results == nil {
		return HighlightOutcome{}, ErrNoPriorCheck
	}

	var failing []*document.Node
	for _, r := range c.results {
		if r.Failed() && r.Node != nil && !r.Node.Removed() {
			failing = append(failing, r.Node)
		}
	}
	if len(failing) == 0 {
		return HighlightOutcome{AllPassed: true}, nil
	}

	if err := c.host.SetSelection(nil); err != nil {
		return HighlightOutcome{}, fmt.Errorf("%w: %w", ErrHighlightFailed, err)
	}
	if err := c.host.SetSelection(failing); err != nil {
		return HighlightOutcome{}, fmt.Errorf("%w: %w", ErrHighlightFailed, err)
	}

	c.highlighted = failing
	c.logger.Debug("highlighted failing texts", "count", len(failing))
	return HighlightOutcome{Count: len(failing)}, nil
}

// ClearHighlighting empties the host selection if a highlight is active.
// Highlighted nodes that have since been removed, for example by a reload,
// do not count; if none remain the host selection is left alone.
func (c *Checker) ClearHighlighting() (ClearOutcome, error) {
	live := c.highlighted[:0:0]
	for _, n := range c.highlighted {
		if !n.Removed() {
			live = append(live, n)
		}
	}
	if len(live) == 0 {
		c.highlighted = nil
		return ClearOutcome{NoActiveHighlight: true}, nil
	}
	c.highlighted = live

	if err := c.host.SetSelection(nil); err != nil {
		return ClearOutcome{}, fmt.Errorf("%w: %w", ErrClearFailed, err)
	}

	count := len(c.highlighted)
	c.highlighted = nil
	c.logger.Debug("cleared highlights", "count", count)
	return ClearOutcome{Count: count}, nil
}

// check scores one text node. ok is false when the node has no usable fill.
func (c *Checker) check(n *document.Node) (res Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			fault := &ResolutionFault{
				NodeID: n.ID,
				Err:    fmt.Errorf("panic: %v", r),
				Stack:  debug.Stack(),
			}
			res, ok = c.faulted(n, fault), true
		}
	}()

	fg, found, err := c.resolver.Foreground(n)
	if err != nil {
		return c.faulted(n, &ResolutionFault{NodeID: n.ID, Err: err}), true
	}
	if !found {
		c.logger.Trace("skipping text without a usable fill", "node", n.ID)
		return Result{}, false
	}

	bg, err := c.resolver.Background(n)
	if err != nil {
		return c.faulted(n, &ResolutionFault{NodeID: n.ID, Err: err}), true
	}

	text, background := c.resolver.Effective(fg, bg)
	size := wcag.NormaliseFontSize(n.FontSize.Or(wcag.DefaultFontSize))
	weight := wcag.NormaliseFontWeight(n.FontWeight.Or(wcag.DefaultFontWeight))
	verdict := wcag.Classify(colour.ContrastRatio(text, background), size, weight, c.policy)

	res = Result{
		Text:            normaliseText(n.Characters, c.textLimit),
		TextColor:       text,
		BackgroundColor: background,
		FontSize:        size,
		FontWeight:      weight,
		Ratio:           verdict.Ratio,
		IsLargeText:     verdict.IsLargeText,
		AA:              verdict.AA,
		AAA:             verdict.AAA,
		Node:            n,
	}
	if c.debug {
		res.Debug = &Debug{
			NodeID:          n.ID,
			Foreground:      fg,
			Background:      bg.Color,
			BackgroundKind:  bg.Kind.String(),
			BackgroundDepth: bg.Depth,
		}
		if bg.Source != nil {
			res.Debug.BackgroundSource = bg.Source.ID
		}
	}
	return res, true
}

func (c *Checker) faulted(n *document.Node, fault *ResolutionFault) Result {
	res := Result{
		Text:       normaliseText(n.Characters, c.textLimit),
		FontSize:   wcag.NormaliseFontSize(n.FontSize.Or(wcag.DefaultFontSize)),
		FontWeight: wcag.NormaliseFontWeight(n.FontWeight.Or(wcag.DefaultFontWeight)),
		Err:        fault,
		Node:       n,
	}
	if c.debug {
		res.Debug = &Debug{NodeID: n.ID, BackgroundKind: resolve.KindDefault.String()}
		if fault.Stack != nil {
			res.Debug.Stack = string(fault.Stack)
		}
	}
	return res
}

// IsUserError reports whether err is one of the input errors a user can correct.
func IsUserError(err error) bool {
	return errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrNoTextFound) ||
		errors.Is(err, ErrNoScorableText)
}
