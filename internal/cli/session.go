package cli

import (
	"fmt"

	"github.com/jmylchreest/contrastcheck/internal/bridge"
	"github.com/jmylchreest/contrastcheck/internal/checker"
	"github.com/jmylchreest/contrastcheck/internal/document"
	"github.com/jmylchreest/contrastcheck/internal/resolve"
	"github.com/jmylchreest/contrastcheck/internal/wcag"
	"github.com/spf13/cobra"
)

// selectionFlags choose what a one-shot command checks.
type selectionFlags struct {
	ids  []string
	page string
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&s.ids, "select", nil, "node ids to check (default: the document's saved selection, else the whole page)")
	cmd.Flags().StringVar(&s.page, "page", "", "page id or name to work on (default: the document's current page)")
}

// apply sets the current page and selection of doc.
func (s *selectionFlags) apply(doc *document.Document) error {
	if s.page != "" {
		if err := doc.SetCurrentPage(s.page); err != nil {
			return err
		}
	}
	switch {
	case len(s.ids) > 0:
		if err := doc.SelectIDs(s.ids); err != nil {
			return fmt.Errorf("invalid --select: %w", err)
		}
	case len(doc.Selection()) == 0:
		return doc.SelectAll()
	}
	return nil
}

// policy returns the configured threshold policy.
func (g *globals) policy() wcag.Policy {
	p, err := wcag.ParsePolicy(g.cfg.Policy)
	if err != nil {
		// Config validation only admits known policies.
		return wcag.PolicyStandard
	}
	return p
}

func (g *globals) newChecker(host checker.Host) *checker.Checker {
	return checker.New(host,
		checker.WithPolicy(g.policy()),
		checker.WithResolverOptions(resolve.Options{
			MaxDepth:          g.cfg.Engine.MaxDepth,
			ShortCircuitDepth: g.cfg.Engine.ShortCircuitDepth,
		}),
		checker.WithTextLimit(g.cfg.Engine.TextLimit),
		checker.WithLogger(g.logger.Named("checker")),
		checker.WithDebug(g.verbose),
	)
}

// openWorkspace loads path and applies the selection flags. The workspace can
// reload the file later, re-applying the same flags.
func (g *globals) openWorkspace(path string, sel *selectionFlags) (*bridge.Workspace, error) {
	load := func() (*document.Document, error) {
		doc, err := document.Load(path, g.cfg.Document.MaxBytes)
		if err != nil {
			return nil, err
		}
		if err := sel.apply(doc); err != nil {
			return nil, err
		}
		g.logger.Debug("loaded document", "path", path, "name", doc.Name, "pages", len(doc.Pages))
		return doc, nil
	}

	doc, err := load()
	if err != nil {
		return nil, err
	}
	return bridge.NewWorkspace(doc, load), nil
}
