package normalize

import (
	"fmt"
	"testing"
	"time"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"

	"github.com/stretchr/testify/assert"
)

func newTestNormalizer() (*Normalizer, *logging.MockLogger) {
	mock := &logging.MockLogger{}
	return New(mock), mock
}

func TestCanonicalDateLayouts(t *testing.T) {
	n, _ := newTestNormalizer()
	period := models.StatementPeriod{}

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "2024-11-21", expected: "2024-11-21"},
		{input: "21/11/2024", expected: "2024-11-21"},
		{input: "21-11-2024", expected: "2024-11-21"},
		{input: "21.11.2024", expected: "2024-11-21"},
		{input: "21 Nov 2024", expected: "2024-11-21"},
		{input: "21 November 2024", expected: "2024-11-21"},
		{input: "Nov 21, 2024", expected: "2024-11-21"},
		{input: "  2024-11-21  ", expected: "2024-11-21"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := n.CanonicalDate(tc.input, period)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCanonicalDateTwoDigitYear(t *testing.T) {
	n, _ := newTestNormalizer()

	// A two-digit-year artifact resolves to 20xx, never 19xx.
	got, ok := n.CanonicalDate("21/11/24", models.StatementPeriod{})
	assert.True(t, ok)
	assert.Equal(t, "2024-11-21", got)
}

func TestCanonicalDateYearless(t *testing.T) {
	n, _ := newTestNormalizer()
	period := models.StatementPeriod{From: "2024-11-01", To: "2024-11-30"}

	got, ok := n.CanonicalDate("21 Nov", period)
	assert.True(t, ok)
	assert.Equal(t, "2024-11-21", got)

	// A statement spanning a year end places January rows in the end year.
	period = models.StatementPeriod{From: "2024-12-01", To: "2025-01-31"}
	got, ok = n.CanonicalDate("3 Jan", period)
	assert.True(t, ok)
	assert.Equal(t, "2025-01-03", got)
}

func TestCanonicalDateYearlessWithoutPeriod(t *testing.T) {
	n, mock := newTestNormalizer()

	got, ok := n.CanonicalDate("21 Nov", models.StatementPeriod{})
	assert.True(t, ok)
	assert.Equal(t, fmt.Sprintf("%04d-11-21", time.Now().Year()), got)
	// The current-year guess is a diagnostic condition, not a silent one.
	assert.Greater(t, mock.CountLevel("WARN"), 0)
}

func TestCanonicalDateUnparseablePassesThrough(t *testing.T) {
	n, mock := newTestNormalizer()

	got, ok := n.CanonicalDate("not a date", models.StatementPeriod{})
	assert.False(t, ok)
	assert.Equal(t, "not a date", got)
	assert.Greater(t, mock.CountLevel("WARN"), 0)
}

func TestCanonicalDateNoTimezoneDrift(t *testing.T) {
	n, _ := newTestNormalizer()

	// Timestamps just after local midnight in a negative-UTC-offset zone
	// must keep their local calendar day.
	got, ok := n.CanonicalDate("2024-03-01T00:30:00-05:00", models.StatementPeriod{})
	assert.True(t, ok)
	assert.Equal(t, "2024-03-01", got)
}

func TestParsePeriod(t *testing.T) {
	n, _ := newTestNormalizer()

	p := n.ParsePeriod("2024-11-01", "2024-11-30")
	assert.Equal(t, "2024-11-01", p.From)
	assert.Equal(t, "2024-11-30", p.To)

	// A side that cannot be parsed degrades to empty, not an error.
	p = n.ParsePeriod("??", "30 Nov 2024")
	assert.Equal(t, "", p.From)
	assert.Equal(t, "2024-11-30", p.To)
}

func TestParsePeriodText(t *testing.T) {
	n, _ := newTestNormalizer()

	testCases := []struct {
		name  string
		input string
		from  string
		to    string
	}{
		{name: "to separator", input: "01 November 2024 to 30 November 2024", from: "2024-11-01", to: "2024-11-30"},
		{name: "through separator", input: "2024-11-01 through 2024-11-30", from: "2024-11-01", to: "2024-11-30"},
		{name: "until separator", input: "01/11/2024 until 30/11/2024", from: "2024-11-01", to: "2024-11-30"},
		{name: "spaced dash", input: "2024-11-01 - 2024-11-30", from: "2024-11-01", to: "2024-11-30"},
		{name: "bare dash", input: "01/11/2024-30/11/2024", from: "2024-11-01", to: "2024-11-30"},
		{name: "single date", input: "01 November 2024", from: "2024-11-01", to: ""},
		{name: "empty", input: "", from: "", to: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := n.ParsePeriodText(tc.input)
			assert.Equal(t, tc.from, p.From)
			assert.Equal(t, tc.to, p.To)
		})
	}
}
