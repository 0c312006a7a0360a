package summary

import (
	"testing"
	"time"

	"github.com/Geun-Oh/timeln/internal/timefmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleSummary(t *testing.T) {
	got := Simple.Summarize(100, 0, 30*time.Second, timefmt.Seconds)
	assert.Equal(t, "[Processed Lines: 100, Matches: 0, Total Time: 30.00 s]", got)
}

func TestDetailedSummary(t *testing.T) {
	got := Detailed.Summarize(100, 0, 100*time.Second, timefmt.Seconds)
	assert.Equal(t, "Processed 100 lines in 100.00 s with 0 matches. Average time per line: 1.00 s", got)
}

func TestDetailedSummaryGroupsThousands(t *testing.T) {
	got := Detailed.Summarize(12000, 1500, 6*time.Second, timefmt.Milliseconds)
	assert.Equal(t, "Processed 12,000 lines in 6000.00 ms with 1,500 matches. Average time per line: 0.50 ms", got)
}

func TestDetailedSummaryNoLines(t *testing.T) {
	got := Detailed.Summarize(0, 0, 2*time.Second, timefmt.Seconds)
	assert.Equal(t, "Processed 0 lines in 2.00 s with 0 matches. Average time per line: 0.00 s", got)
}

func TestAverage(t *testing.T) {
	assert.Equal(t, time.Duration(0), Average(time.Second, 0))
	assert.Equal(t, 250*time.Millisecond, Average(time.Second, 4))
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("DETAILED")
	require.NoError(t, err)
	assert.Equal(t, Detailed, s)
	assert.Equal(t, "detailed", s.String())

	_, err = ParseStyle("verbose")
	assert.Error(t, err)
}
