package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{time.Minute, "1m"},
		{25 * time.Minute, "25m"},
		{time.Hour, "1h"},
		{85 * time.Minute, "1h 25m"},
		{-time.Minute, "0s"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.in), "input %v", tc.in)
	}
}

func TestTruncID(t *testing.T) {
	out := TruncID("abcdef1234567890")
	assert.Contains(t, out, "abcdef12")
	assert.NotContains(t, out, "abcdef123")
}

func TestSessionPill(t *testing.T) {
	assert.Contains(t, SessionPill(domain.SessionRunning), "Running")
	assert.Contains(t, SessionPill(domain.SessionPaused), "Paused")
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := RenderTable(
		[]string{"NAME", "STREAK"},
		[][]string{
			{"meditation", "3"},
			{"run", "12"},
		},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[2], "meditation")
	assert.Contains(t, lines[3], "run")
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}
