// Package batch consolidates processed statements that belong to the
// same bank account: one account often arrives as several monthly
// uploads, and downstream hand-off wants a single chronological stream
// per account with overlapping uploads flagged.
package batch

import (
	"fmt"
	"sort"
	"strings"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"
)

// MergePeriods returns the overall range covered by two statement
// periods. Canonical YYYY-MM-DD dates compare lexically, so no time
// parsing is needed; empty sides are treated as absent.
func MergePeriods(a, b models.StatementPeriod) models.StatementPeriod {
	out := a
	if out.From == "" || (b.From != "" && b.From < out.From) {
		out.From = b.From
	}
	if out.To == "" || (b.To != "" && b.To > out.To) {
		out.To = b.To
	}
	return out
}

// Group is the set of statements consolidated for one account.
type Group struct {
	AccountNumber string
	AccountInfo   models.AccountInfo
	Statements    []models.BankStatement
	Period        models.StatementPeriod
}

// Aggregator groups statements by account and merges their transactions.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates an Aggregator. A nil logger falls back to a
// default adapter.
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Aggregator{logger: logger}
}

// GroupByAccount groups statements by account number, in account order.
// Statements without an account number land in one shared "unknown"
// group rather than disappearing.
func (a *Aggregator) GroupByAccount(stmts []models.BankStatement) []Group {
	byAccount := make(map[string]*Group)

	for i := range stmts {
		stmt := &stmts[i]
		key := stmt.AccountInfo.AccountNumber
		if key == "" {
			key = "unknown"
		}

		group, ok := byAccount[key]
		if !ok {
			group = &Group{AccountNumber: key, AccountInfo: stmt.AccountInfo}
			byAccount[key] = group
		}
		group.Statements = append(group.Statements, *stmt)
		group.Period = MergePeriods(group.Period, stmt.Summary.Period)

		a.logger.WithFields(
			logging.Field{Key: logging.FieldFile, Value: stmt.FileName},
			logging.Field{Key: "account", Value: key},
		).Debug("Statement mapped to account group")
	}

	groups := make([]Group, 0, len(byAccount))
	for _, g := range byAccount {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].AccountNumber < groups[j].AccountNumber
	})

	a.logger.WithFields(
		logging.Field{Key: "statements", Value: len(stmts)},
		logging.Field{Key: logging.FieldCount, Value: len(groups)},
	).Info("Grouped statements by account")
	return groups
}

// Consolidate merges a group's transactions into one chronological
// stream. Overlapping uploads produce repeats; those are logged and
// kept, since dropping a legitimate repeated payment would be worse
// than exporting a duplicate.
func (a *Aggregator) Consolidate(group Group) []models.BankTransaction {
	var all []models.BankTransaction
	for i := range group.Statements {
		all = append(all, group.Statements[i].Transactions...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date < all[j].Date
		}
		return all[i].SignedAmount().LessThan(all[j].SignedAmount())
	})

	if dupes := a.countDuplicates(all); dupes > 0 {
		a.logger.WithFields(
			logging.Field{Key: "account", Value: group.AccountNumber},
			logging.Field{Key: logging.FieldCount, Value: dupes},
		).Warn("Consolidated stream contains potential duplicate transactions")
	}
	return all
}

// countDuplicates flags adjacent transactions with the same date, signed
// amount and description. The stream is sorted, so duplicates are
// neighbours.
func (a *Aggregator) countDuplicates(txs []models.BankTransaction) int {
	count := 0
	for i := 1; i < len(txs); i++ {
		prev, cur := &txs[i-1], &txs[i]
		if prev.Date != cur.Date || !prev.SignedAmount().Equal(cur.SignedAmount()) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(prev.Description), strings.TrimSpace(cur.Description)) {
			count++
			a.logger.WithFields(
				logging.Field{Key: logging.FieldDate, Value: cur.Date},
				logging.Field{Key: logging.FieldAmount, Value: cur.SignedAmount().StringFixed(2)},
			).Warn("Potential duplicate transaction")
		}
	}
	return count
}

// OutputName builds the consolidated export filename for a group,
// "{account}_{from}_{to}.csv", degrading gracefully when the period is
// unknown.
func (a *Aggregator) OutputName(group Group) string {
	account := sanitizeAccount(group.AccountNumber)
	if group.Period.From != "" && group.Period.To != "" {
		return fmt.Sprintf("%s_%s_%s.csv", account, group.Period.From, group.Period.To)
	}
	return fmt.Sprintf("%s.csv", account)
}

func sanitizeAccount(account string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, account)
}
