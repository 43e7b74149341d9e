package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountInfo identifies the source account of a statement.
// It is extracted once and never mutated afterwards.
type AccountInfo struct {
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	BankName      string `json:"bankName"`
	AccountType   string `json:"accountType,omitempty"`
	Branch        string `json:"branch,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// StatementPeriod is the declared date range a statement covers.
// Either side may be empty when the source document only states a
// partial range.
type StatementPeriod struct {
	From string `json:"from,omitempty"` // YYYY-MM-DD
	To   string `json:"to,omitempty"`   // YYYY-MM-DD
}

// StatementSummary holds the statement-level totals declared by the bank.
// The closing balance is the ground truth the balance corrector validates
// transaction rows against.
type StatementSummary struct {
	OpeningBalance   decimal.Decimal `json:"openingBalance"`
	ClosingBalance   decimal.Decimal `json:"closingBalance"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	TotalFees        decimal.Decimal `json:"totalFees"`
	InterestEarned   decimal.Decimal `json:"interestEarned"`
	TransactionCount int             `json:"transactionCount"`
	Period           StatementPeriod `json:"statementPeriod"`
}

// BankStatement is the canonical record of one uploaded bank document.
// Transactions are kept in document order; the balance corrector depends
// on that order being preserved.
type BankStatement struct {
	ID           string            `json:"id"`
	CompanyID    string            `json:"companyId"`
	FileName     string            `json:"fileName"`
	FileSize     int64             `json:"fileSize"`
	UploadedAt   time.Time         `json:"uploadedAt"`
	ProcessedAt  time.Time         `json:"processedAt,omitempty"`
	Status       StatementStatus   `json:"status"`
	AccountInfo  AccountInfo       `json:"accountInfo"`
	Summary      StatementSummary  `json:"summary"`
	Transactions []BankTransaction `json:"transactions"`
	Error        string            `json:"error,omitempty"`
}
