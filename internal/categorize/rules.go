package categorize

import (
	"os"
	"strings"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"

	"gopkg.in/yaml.v3"
)

// Rule maps description keywords to a category label. Rules are evaluated
// in order and the first keyword hit wins.
type Rule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultRules is the built-in rule set used when no rules file is
// configured.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "Payroll", Keywords: []string{"payroll", "salary", "salaries", "wages"}},
		{Name: "Rent", Keywords: []string{"rent", "lease"}},
		{Name: "Utilities", Keywords: []string{"utility", "utilities", "electricity", "water", "municipal"}},
		{Name: "Insurance", Keywords: []string{"insurance", "assurance"}},
		{Name: "Tax", Keywords: []string{"tax", "sars", "vat"}},
		{Name: "Suppliers", Keywords: []string{"supplier", "wholesale"}},
		{Name: "Equipment", Keywords: []string{"equipment", "hardware", "machinery"}},
		{Name: "Marketing", Keywords: []string{"marketing", "advertising", "advert"}},
		{Name: "Sales", Keywords: []string{"sales", "pos sale"}},
		{Name: "Customer Payment", Keywords: []string{"customer payment", "payment received", "invoice payment"}},
		{Name: "Refund", Keywords: []string{"refund", "reversal"}},
		{Name: "Bank Fees", Keywords: []string{"bank fee", "service fee", "account fee", "bank charge"}},
		{Name: "Interest", Keywords: []string{"interest"}},
		{Name: "Transfer", Keywords: []string{"transfer"}},
	}
}

// Categorizer matches descriptions against an ordered keyword rule set.
type Categorizer struct {
	rules  []Rule
	logger logging.Logger
}

// New creates a Categorizer with the built-in rules.
func New(logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Categorizer{rules: DefaultRules(), logger: logger}
}

// NewFromFile creates a Categorizer loading rules from a YAML file.
// A missing or malformed file falls back to the built-in rules.
func NewFromFile(path string, logger logging.Logger) *Categorizer {
	c := New(logger)
	if path == "" {
		return c
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.WithError(err).WithField(logging.FieldFile, path).
			Warn("Cannot read category rules file, using built-in rules")
		return c
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		c.logger.WithError(err).WithField(logging.FieldFile, path).
			Warn("Cannot parse category rules file, using built-in rules")
		return c
	}
	if len(rules) > 0 {
		c.rules = rules
		c.logger.WithField(logging.FieldCount, len(rules)).Debug("Loaded category rules")
	}
	return c
}

// Category resolves a description to a category label, case-insensitively.
// Descriptions matching no rule fall to the default label.
func (c *Categorizer) Category(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, strings.ToLower(kw)) {
				return rule.Name
			}
		}
	}
	return models.CategoryOther
}
