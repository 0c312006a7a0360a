package sink

import (
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/Geun-Oh/timeln/internal/timefmt"
	"github.com/Geun-Oh/timeln/internal/timing"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonLine is the serialization format of one timed line.
type jsonLine struct {
	Type      string `json:"type"`
	Seq       uint64 `json:"seq"`
	Line      string `json:"line"`
	Match     []int  `json:"match,omitempty"`
	ElapsedNS int64  `json:"elapsed_ns"`
	DeltaNS   int64  `json:"delta_ns"`
	Elapsed   string `json:"elapsed"`
	Delta     string `json:"delta"`
}

// jsonSummary is the serialization format of the final report.
type jsonSummary struct {
	Type      string `json:"type"`
	Lines     uint64 `json:"processed_lines"`
	Matches   uint64 `json:"matches"`
	TotalNS   int64  `json:"total_ns"`
	Total     string `json:"total"`
	Snapshots int    `json:"snapshots"`
	Reason    string `json:"reason,omitempty"`
	Summary   string `json:"summary"`
}

// JSONSink writes JSON Lines: one object per timed line, then one summary object.
type JSONSink struct {
	enc    *jsoniter.Encoder
	format timefmt.Format
}

// NewJSONSink creates a JSON Lines sink writing to w (os.Stdout if nil).
// format renders the human-readable duration fields.
func NewJSONSink(w io.Writer, format timefmt.Format) *JSONSink {
	if w == nil {
		w = os.Stdout
	}
	return &JSONSink{enc: json.NewEncoder(w), format: format}
}

// Write serializes a timed line as a single JSON line.
func (s *JSONSink) Write(r timing.Record) error {
	return s.enc.Encode(jsonLine{
		Type:      "line",
		Seq:       r.Seq,
		Line:      r.Text,
		Match:     r.Match,
		ElapsedNS: int64(r.Elapsed),
		DeltaNS:   int64(r.Delta),
		Elapsed:   s.format.Duration(r.Elapsed),
		Delta:     s.format.Duration(r.Delta),
	})
}

// Summary serializes the report as the last JSON line.
func (s *JSONSink) Summary(r Report) error {
	return s.enc.Encode(jsonSummary{
		Type:      "summary",
		Lines:     r.Lines,
		Matches:   r.Matches,
		TotalNS:   int64(r.Total),
		Total:     s.format.Duration(r.Total),
		Snapshots: r.Snapshots,
		Reason:    r.Reason,
		Summary:   r.Text,
	})
}

// Flush is a no-op for JSON sink.
func (s *JSONSink) Flush() error { return nil }

// Close is a no-op for JSON sink.
func (s *JSONSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *JSONSink) Name() string { return "json" }
