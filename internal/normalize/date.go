package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"finbooks/bankrecon/internal/models"
)

// DateLayoutISO is the canonical date layout emitted by the normalizer.
const DateLayoutISO = "2006-01-02"

// layouts tried in order when parsing a transaction date that carries a
// year. Day-first layouts come before US ones: bank statements in our
// corpus are day-first.
var dateLayouts = []string{
	DateLayoutISO,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"2 January 2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02/01/06",
	"02-01-06",
	"2 Jan 06",
}

// yearlessLayouts parse formats that omit the year entirely ("21 Nov").
var yearlessLayouts = []string{
	"2 January",
	"2 Jan",
	"02 Jan",
}

var yearlessPattern = regexp.MustCompile(`(?i)^\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*$`)

var whitespaceRun = regexp.MustCompile(`\s+`)

func cleanDateString(raw string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(raw), " ")
}

// canonical formats a time using its local calendar fields. Formatting via
// a UTC conversion would shift dates near midnight in non-UTC locales.
func canonical(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// fixCentury repairs two-digit-year parsing artifacts: a year below 2000
// is assumed to be a truncated 20xx year.
func fixCentury(t time.Time) time.Time {
	if t.Year() >= 2000 {
		return t
	}
	return time.Date(2000+t.Year()%100, t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CanonicalDate converts a raw transaction date into the canonical
// YYYY-MM-DD form. Year-less dates are resolved against the statement
// period, preferring the period's start year; when no period is available
// the current year is used and reported as a diagnostic. Unparseable input
// is passed through unchanged with ok=false so a single bad row never
// aborts the pipeline.
func (n *Normalizer) CanonicalDate(raw string, period models.StatementPeriod) (date string, ok bool) {
	s := cleanDateString(raw)
	if s == "" {
		return raw, false
	}

	if yearlessPattern.MatchString(s) {
		for _, layout := range yearlessLayouts {
			t, err := time.ParseInLocation(layout, s, time.Local)
			if err != nil {
				continue
			}
			return canonical(n.resolveYear(t, period)), true
		}
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		return canonical(fixCentury(t)), true
	}

	n.logger.WithField("date", raw).Warn("Unable to parse transaction date, passing through raw")
	return raw, false
}

// resolveYear pins a year-less date to a concrete year using the statement
// period. If placing it in the period's start year lands before the period
// begins (a statement spanning a year end), the end year is used instead.
func (n *Normalizer) resolveYear(t time.Time, period models.StatementPeriod) time.Time {
	from, fromErr := time.ParseInLocation(DateLayoutISO, period.From, time.Local)
	to, toErr := time.ParseInLocation(DateLayoutISO, period.To, time.Local)

	if fromErr != nil && toErr != nil {
		year := time.Now().Year()
		n.logger.WithField("date", canonical(t)).
			Warn("No statement period available, assuming current year for year-less date")
		return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	}

	year := 0
	switch {
	case fromErr == nil:
		year = from.Year()
	default:
		year = to.Year()
	}

	placed := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	if fromErr == nil && toErr == nil && placed.Before(from) && to.Year() > from.Year() {
		placed = time.Date(to.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	}
	return placed
}
