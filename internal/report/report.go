// Package report renders check summaries for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jmylchreest/contrastcheck/internal/checker"
	"github.com/jmylchreest/contrastcheck/internal/colour"
	"github.com/jmylchreest/contrastcheck/internal/wcag"
)

// Format selects the output encoding.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected table or json)", s)
	}
}

// Options controls table output.
type Options struct {
	// Preview adds a column showing each text in its resolved colours.
	Preview bool
	// Colour enables ANSI colouring of verdicts.
	Colour bool
	// TextWidth wraps the text column; zero means 40.
	TextWidth int
}

const (
	defaultTextWidth = 40
	previewWidth     = 12
)

var (
	passColour  = color.New(color.FgGreen)
	failColour  = color.New(color.FgRed, color.Bold)
	errorColour = color.New(color.FgYellow)
)

// Write renders summary in the given format.
func Write(w io.Writer, format Format, summary *checker.Summary, policy wcag.Policy, opts Options) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, summary)
	default:
		return WriteTable(w, summary, policy, opts)
	}
}

// WriteJSON writes the summary as indented JSON.
func WriteJSON(w io.Writer, summary *checker.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary.DTO()); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteTable writes one row per result followed by a totals line.
func WriteTable(w io.Writer, summary *checker.Summary, policy wcag.Policy, opts Options) error {
	headers := []string{"#", "Text", "Size", "Text colour", "Background", "Ratio", "AA", "AAA"}
	if opts.Preview {
		headers = append(headers, "Preview")
	}

	width := opts.TextWidth
	if width <= 0 {
		width = defaultTextWidth
	}
	table := NewTable(headers)
	table.SetColumnMaxWidth(1, width)

	for i, r := range summary.Results {
		row := []string{
			strconv.Itoa(i + 1),
			r.Text,
			formatSize(r),
			r.TextColor.Hex(),
			r.BackgroundColor.Hex(),
			formatRatio(r),
			verdict(r, r.AA, opts.Colour),
			verdict(r, r.AAA, opts.Colour),
		}
		if opts.Preview {
			row = append(row, preview(r))
		}
		table.AddRow(row)
	}

	if _, err := io.WriteString(w, table.Render()); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d texts checked (%s policy): %d passed, %d failed, %d errors in %s\n",
		summary.TotalTexts, policy, summary.PassedCount, summary.FailedCount, summary.ErrorCount,
		summary.ProcessingTime.Round(time.Microsecond))
	return err
}

// WriteNotice writes a one-line message, coloured as a failure when isErr is set.
func WriteNotice(w io.Writer, message string, isErr, useColour bool) error {
	if isErr && useColour {
		message = failColour.Sprint(message)
	}
	_, err := fmt.Fprintln(w, message)
	return err
}

func formatSize(r checker.Result) string {
	s := strconv.FormatFloat(r.FontSize, 'f', -1, 64) + "px"
	if r.FontWeight >= 700 {
		s += " bold"
	}
	if r.IsLargeText {
		s += " (large)"
	}
	return s
}

func formatRatio(r checker.Result) string {
	if r.Err != nil {
		return "-"
	}
	return strconv.FormatFloat(r.Ratio, 'f', 2, 64) + ":1"
}

func verdict(r checker.Result, pass, useColour bool) string {
	label, c := "fail", failColour
	switch {
	case r.Err != nil:
		label, c = "error", errorColour
	case pass:
		label, c = "pass", passColour
	}
	if !useColour {
		return label
	}
	return c.Sprint(label)
}

func preview(r checker.Result) string {
	if r.Err != nil {
		return ""
	}
	return colour.Sample(r.TextColor, r.BackgroundColor, r.Text, previewWidth)
}
