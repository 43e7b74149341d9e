package normalize

import (
	"regexp"
	"strings"
	"time"

	"finbooks/bankrecon/internal/models"
)

// textual range separators accepted in free-text statement periods,
// longest first so "through" is not split at "to".
var rangeSeparators = []string{" through ", " until ", " till ", " to ", " - ", " – ", " — "}

var dashOnly = regexp.MustCompile(`\s*[-–—]\s*`)

var isoPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// ParsePeriod builds a statement period from pre-split from/to values.
// Each side is canonicalized independently; a side that cannot be parsed
// is left empty rather than failing the whole period.
func (n *Normalizer) ParsePeriod(from, to string) models.StatementPeriod {
	return models.StatementPeriod{
		From: n.periodSide(from),
		To:   n.periodSide(to),
	}
}

// ParsePeriodText splits a free-text range such as
// "01 November 2024 to 30 November 2024" into a statement period.
// When no separator is found the whole text is tried as the start date.
func (n *Normalizer) ParsePeriodText(raw string) models.StatementPeriod {
	s := cleanDateString(raw)
	if s == "" {
		return models.StatementPeriod{}
	}

	for _, sep := range rangeSeparators {
		if idx := strings.Index(strings.ToLower(s), sep); idx >= 0 {
			return n.ParsePeriod(s[:idx], s[idx+len(sep):])
		}
	}

	// Bare dash ranges like "01/11/2024-30/11/2024". ISO dates embed
	// dashes, so skip the attempt when the text starts with one.
	if !isoPrefix.MatchString(s) {
		if parts := dashOnly.Split(s, 2); len(parts) == 2 {
			p := n.ParsePeriod(parts[0], parts[1])
			if p.From != "" || p.To != "" {
				return p
			}
		}
	}

	return models.StatementPeriod{From: n.periodSide(s)}
}

func (n *Normalizer) periodSide(raw string) string {
	s := cleanDateString(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return canonical(fixCentury(t))
		}
	}
	n.logger.WithField("date", raw).Debug("Unparseable statement period side")
	return ""
}
