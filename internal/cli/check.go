package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jmylchreest/contrastcheck/internal/checker"
	"github.com/jmylchreest/contrastcheck/internal/colour"
	"github.com/jmylchreest/contrastcheck/internal/report"
	"github.com/spf13/cobra"
)

// ErrChecksFailed is returned by --fail when at least one text fails AA.
var ErrChecksFailed = errors.New("contrast check failed")

type checkFlags struct {
	selection selectionFlags
	format    string
	preview   bool
	fail      bool
}

func newCheckCmd(g *globals) *cobra.Command {
	f := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check <document>",
		Short: "Check the contrast of every visible text in the selection",
		Long: `Check resolves the colours of every visible text layer in the selection and
reports its contrast ratio and WCAG AA/AAA verdict.

Examples:
  contrastcheck check design.json
  contrastcheck check design.yaml.xz --select hero,footer --format json
  contrastcheck check design.json --strict --fail`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(f.format)
			if err != nil {
				return err
			}

			ws, err := g.openWorkspace(args[0], &f.selection)
			if err != nil {
				return err
			}

			c := g.newChecker(ws)
			summary, err := c.CheckSelection()
			if err != nil {
				return err
			}

			if !g.quiet || format == report.FormatJSON {
				opts := report.Options{Preview: f.preview, Colour: colour.SupportsANSIColours()}
				if err := report.Write(cmd.OutOrStdout(), format, summary, c.Policy(), opts); err != nil {
					return err
				}
			}

			if f.fail && summary.FailedCount+summary.ErrorCount > 0 {
				return fmt.Errorf("%w: %d of %d texts do not meet AA", ErrChecksFailed,
					summary.FailedCount+summary.ErrorCount, summary.TotalTexts)
			}
			return nil
		},
	}

	f.selection.register(cmd)
	cmd.Flags().StringVarP(&f.format, "format", "f", "table", "output format (table, json)")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "show each text rendered in its resolved colours")
	cmd.Flags().BoolVar(&f.fail, "fail", false, "exit non-zero when any text fails AA")

	return cmd
}

type highlightFlags struct {
	selection selectionFlags
	format    string
}

// highlightResult is the JSON output of the highlight command.
type highlightResult struct {
	Message     string   `json:"message"`
	Highlighted []string `json:"highlighted"`
}

func newHighlightCmd(g *globals) *cobra.Command {
	f := &highlightFlags{}

	cmd := &cobra.Command{
		Use:   "highlight <document>",
		Short: "Select every text that fails AA and print the resulting selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(f.format)
			if err != nil {
				return err
			}

			ws, err := g.openWorkspace(args[0], &f.selection)
			if err != nil {
				return err
			}

			c := g.newChecker(ws)
			if _, err := c.CheckSelection(); err != nil {
				return err
			}

			outcome, err := c.HighlightFailing()
			if err != nil {
				return err
			}

			res := highlightResult{Highlighted: []string{}}
			if outcome.AllPassed {
				res.Message = "All texts pass"
			} else {
				res.Message = fmt.Sprintf("Highlighted %d failing texts", outcome.Count)
				for _, n := range ws.Selection() {
					res.Highlighted = append(res.Highlighted, n.ID)
				}
			}

			return writeHighlight(cmd.OutOrStdout(), format, res, g.quiet)
		},
	}

	f.selection.register(cmd)
	cmd.Flags().StringVarP(&f.format, "format", "f", "table", "output format (table, json)")

	return cmd
}

func writeHighlight(w io.Writer, format report.Format, res highlightResult, quiet bool) error {
	if format == report.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if quiet {
		return nil
	}
	if err := report.WriteNotice(w, res.Message, false, false); err != nil {
		return err
	}
	for _, id := range res.Highlighted {
		if _, err := fmt.Fprintf(w, "  %s\n", id); err != nil {
			return err
		}
	}
	return nil
}

// isUserError reports whether err should be shown without a log entry.
func isUserError(err error) bool {
	return checker.IsUserError(err) || errors.Is(err, ErrChecksFailed)
}
