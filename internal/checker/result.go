package checker

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmylchreest/contrastcheck/internal/colour"
	"github.com/jmylchreest/contrastcheck/internal/document"
)

// placeholderText stands in for a text node whose characters are empty.
const placeholderText = "[text unavailable]"

// Result is the contrast verdict for one text node.
type Result struct {
	Text            string
	TextColor       colour.RGB
	BackgroundColor colour.RGB
	FontSize        float64
	FontWeight      float64
	Ratio           float64
	IsLargeText     bool
	AA              bool
	AAA             bool
	// Err is set when the node could not be resolved. Ratio is then 0 and AA/AAA false.
	Err   error
	Debug *Debug

	// Node is used to re-select the text later. It never leaves the process.
	Node *document.Node
}

// Failed reports whether the result fails AA, including errored results.
func (r Result) Failed() bool {
	return !r.AA
}

// Debug describes how a result's colours were derived.
type Debug struct {
	NodeID string `json:"nodeId"`
	// Foreground is the text fill before compositing.
	Foreground       colour.RGB `json:"foreground"`
	Background       colour.RGB `json:"background"`
	BackgroundKind   string     `json:"backgroundKind"`
	BackgroundSource string     `json:"backgroundSource,omitempty"`
	BackgroundDepth  int        `json:"backgroundDepth"`
	Stack            string     `json:"stack,omitempty"`
}

// ResultDTO is the serialisable form of a Result.
type ResultDTO struct {
	Text            string     `json:"text"`
	TextColor       colour.RGB `json:"textColor"`
	BackgroundColor colour.RGB `json:"backgroundColor"`
	FontSize        float64    `json:"fontSize"`
	FontWeight      float64    `json:"fontWeight"`
	Ratio           float64    `json:"ratio"`
	IsLargeText     bool       `json:"isLargeText"`
	AA              bool       `json:"aa"`
	AAA             bool       `json:"aaa"`
	Error           string     `json:"error,omitempty"`
	Debug           *Debug     `json:"debug,omitempty"`
}

// DTO projects the result without its node reference.
func (r Result) DTO() ResultDTO {
	dto := ResultDTO{
		Text:            r.Text,
		TextColor:       r.TextColor,
		BackgroundColor: r.BackgroundColor,
		FontSize:        r.FontSize,
		FontWeight:      r.FontWeight,
		Ratio:           r.Ratio,
		IsLargeText:     r.IsLargeText,
		AA:              r.AA,
		AAA:             r.AAA,
		Debug:           r.Debug,
	}
	if r.Err != nil {
		dto.Error = r.Err.Error()
	}
	return dto
}

// Summary is the outcome of a successful check.
type Summary struct {
	RunID   uuid.UUID
	Results []Result
	// TotalTexts counts every result, errored ones included.
	TotalTexts     int
	PassedCount    int
	FailedCount    int
	ErrorCount     int
	ProcessingTime time.Duration
}

// SummaryDTO is the serialisable form of a Summary.
type SummaryDTO struct {
	RunID       string      `json:"runId"`
	Results     []ResultDTO `json:"results"`
	TotalTexts  int         `json:"totalTexts"`
	PassedCount int         `json:"passedCount"`
	FailedCount int         `json:"failedCount"`
	ErrorCount  int         `json:"errorCount"`
	// ProcessingTime is in milliseconds.
	ProcessingTime float64 `json:"processingTime"`
}

// DTO projects the summary for the message boundary.
func (s *Summary) DTO() SummaryDTO {
	results := make([]ResultDTO, 0, len(s.Results))
	for _, r := range s.Results {
		results = append(results, r.DTO())
	}
	return SummaryDTO{
		RunID:          s.RunID.String(),
		Results:        results,
		TotalTexts:     s.TotalTexts,
		PassedCount:    s.PassedCount,
		FailedCount:    s.FailedCount,
		ErrorCount:     s.ErrorCount,
		ProcessingTime: float64(s.ProcessingTime.Microseconds()) / 1000,
	}
}

// HighlightOutcome reports what HighlightFailing did.
type HighlightOutcome struct {
	// AllPassed is true when no failing text was left to select.
	AllPassed bool
	Count     int
}

// ClearOutcome reports what ClearHighlighting did.
type ClearOutcome struct {
	// NoActiveHighlight is true when there was nothing to clear.
	NoActiveHighlight bool
	Count             int
}

// normaliseText collapses whitespace runs and truncates to limit runes.
func normaliseText(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return placeholderText
	}
	if limit > 0 {
		if runes := []rune(s); len(runes) > limit {
			s = string(runes[:limit])
		}
	}
	return s
}
