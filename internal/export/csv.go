// Package export writes normalized statements to the bookkeeping CSV
// layout for downstream hand-off.
package export

import (
	"fmt"
	"io"

	"finbooks/bankrecon/internal/models"

	"github.com/gocarina/gocsv"
)

// Row is one exported transaction line.
type Row struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Debit       string `csv:"Debit"`
	Credit      string `csv:"Credit"`
	Balance     string `csv:"Balance"`
	Reference   string `csv:"Reference"`
	Type        string `csv:"Type"`
	Category    string `csv:"Category"`
}

// Statement writes a statement's transactions as CSV, in document order.
func Statement(w io.Writer, stmt *models.BankStatement) error {
	rows := make([]Row, 0, len(stmt.Transactions))
	for i := range stmt.Transactions {
		tx := &stmt.Transactions[i]
		row := Row{
			Date:        tx.Date,
			Description: tx.Description,
			Reference:   tx.Reference,
			Type:        string(tx.Type),
			Category:    tx.Category,
		}
		if tx.Debit.IsPositive() {
			row.Debit = tx.Debit.StringFixed(2)
		}
		if tx.Credit.IsPositive() {
			row.Credit = tx.Credit.StringFixed(2)
		}
		if tx.Balance.Valid {
			row.Balance = tx.Balance.Decimal.StringFixed(2)
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing statement CSV: %w", err)
	}
	return nil
}
