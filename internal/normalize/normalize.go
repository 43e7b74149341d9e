// Package normalize converts raw extracted statement fields into the
// canonical transaction model: cleaned decimal amounts split into debit
// and credit per the detected bank's convention, and dates in YYYY-MM-DD.
package normalize

import (
	"finbooks/bankrecon/internal/bankformat"
	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/recerror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawRow is one transaction row as delivered by the extraction service.
// Every field is an untrusted string. A row either carries pre-split
// Debit/Credit columns or a single signed Amount column.
type RawRow struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Amount      string `json:"amount"`
	Balance     string `json:"balance"`
	Reference   string `json:"reference"`
}

// RawSummary is the statement-level block as delivered by the extraction
// service, untrusted strings throughout. The period may arrive pre-split
// or as one free-text range.
type RawSummary struct {
	OpeningBalance   string `json:"openingBalance"`
	ClosingBalance   string `json:"closingBalance"`
	TotalDeposits    string `json:"totalDeposits"`
	TotalWithdrawals string `json:"totalWithdrawals"`
	TotalFees        string `json:"totalFees"`
	InterestEarned   string `json:"interestEarned"`
	PeriodFrom       string `json:"periodFrom"`
	PeriodTo         string `json:"periodTo"`
	PeriodText       string `json:"period"`
}

// Normalizer converts raw extraction output into canonical model values.
type Normalizer struct {
	logger logging.Logger
}

// New creates a Normalizer. A nil logger falls back to a default adapter.
func New(logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Normalizer{logger: logger}
}

// Summary normalizes the statement-level totals and period.
func (n *Normalizer) Summary(raw RawSummary) models.StatementSummary {
	period := n.ParsePeriod(raw.PeriodFrom, raw.PeriodTo)
	if period.From == "" && period.To == "" && raw.PeriodText != "" {
		period = n.ParsePeriodText(raw.PeriodText)
	}
	return models.StatementSummary{
		OpeningBalance:   models.ParseDecimal(raw.OpeningBalance),
		ClosingBalance:   models.ParseDecimal(raw.ClosingBalance),
		TotalDeposits:    models.ParseDecimal(raw.TotalDeposits),
		TotalWithdrawals: models.ParseDecimal(raw.TotalWithdrawals),
		TotalFees:        models.ParseDecimal(raw.TotalFees),
		InterestEarned:   models.ParseDecimal(raw.InterestEarned),
		Period:           period,
	}
}

// Rows normalizes raw transaction rows into canonical BankTransaction
// values, in document order. It never aborts on a bad row; conditions
// worth operator attention come back as diagnostics.
func (n *Normalizer) Rows(raws []RawRow, handler bankformat.Handler, period models.StatementPeriod) ([]models.BankTransaction, []string) {
	txs := make([]models.BankTransaction, 0, len(raws))
	var diags []string

	if handler.OmitsYear() && period.From == "" && period.To == "" {
		diags = append(diags,
			"statement period unavailable; year-less dates fall back to the current year")
	}

	for i, raw := range raws {
		tx := models.BankTransaction{
			ID:          uuid.NewString(),
			Description: raw.Description,
			Reference:   raw.Reference,
		}

		date, ok := n.CanonicalDate(raw.Date, period)
		tx.Date = date
		if !ok && raw.Date != "" {
			diags = append(diags, (&recerror.NormalizationError{
				Row:   i,
				Field: "date",
				Value: raw.Date,
				Msg:   "not a recognized date layout",
			}).Error())
		}

		parts := n.amountParts(raw, handler)
		tx.Debit = parts.Debit
		tx.Credit = parts.Credit

		if raw.Balance != "" {
			tx.Balance = decimal.NewNullDecimal(models.ParseDecimal(raw.Balance))
		}

		txs = append(txs, tx)
	}

	if len(diags) > 0 {
		n.logger.WithField(logging.FieldCount, len(diags)).Warn("Normalization produced diagnostics")
	}
	return txs, diags
}

// amountParts resolves a row's debit/credit split. Pre-split columns are
// trusted as positioned but their strings still go through the handler's
// convention-aware parsing; a lone amount column is entirely the
// handler's call.
func (n *Normalizer) amountParts(raw RawRow, handler bankformat.Handler) models.AmountParts {
	debit := models.ParseDecimal(raw.Debit).Abs()
	credit := models.ParseDecimal(raw.Credit).Abs()

	switch {
	case debit.IsPositive() && credit.IsPositive():
		// A row is money-in or money-out, never both. Net the two sides
		// and keep the dominant direction.
		net := credit.Sub(debit)
		n.logger.WithFields(
			logging.Field{Key: "debit", Value: raw.Debit},
			logging.Field{Key: "credit", Value: raw.Credit},
		).Warn("Row carries both debit and credit, keeping the net")
		if net.IsNegative() {
			return models.AmountParts{Debit: net.Neg()}
		}
		return models.AmountParts{Credit: net}
	case debit.IsPositive():
		return models.AmountParts{Debit: debit}
	case credit.IsPositive():
		return models.AmountParts{Credit: credit}
	}

	if raw.Amount != "" {
		return handler.ParseAmount(raw.Amount)
	}
	return models.AmountParts{}
}

// AccountInfo normalizes the extracted account block, filling a missing
// account number from the raw text via the handler when possible.
func (n *Normalizer) AccountInfo(acct models.AccountInfo, rawText string, handler bankformat.Handler) models.AccountInfo {
	if acct.AccountNumber == "" && rawText != "" {
		if num := handler.ExtractAccountNumber(rawText); num != "" {
			acct.AccountNumber = num
			n.logger.WithField("account", num).Debug("Account number recovered from raw text")
		}
	}
	if acct.BankName == "" {
		acct.BankName = handler.Name()
	}
	return acct
}
