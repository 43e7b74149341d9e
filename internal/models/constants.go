package models

// TransactionType is the coarse classification assigned to a bank
// transaction after normalization and balance correction.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeFee        TransactionType = "fee"
	TypeInterest   TransactionType = "interest"
	TypeTransfer   TransactionType = "transfer"
	TypeOther      TransactionType = "other"
)

// StatementStatus tracks the lifecycle of an uploaded statement.
type StatementStatus string

const (
	StatementPending    StatementStatus = "pending"
	StatementProcessing StatementStatus = "processing"
	StatementCompleted  StatementStatus = "completed"
	StatementFailed     StatementStatus = "failed"
)

// MatchStatus tracks the lifecycle of a reconciliation match.
// Confirmed and rejected are terminal; re-matching requires deleting
// the record and creating a new one.
type MatchStatus string

const (
	MatchSuggested MatchStatus = "suggested"
	MatchConfirmed MatchStatus = "confirmed"
	MatchRejected  MatchStatus = "rejected"
)

// CanTransition reports whether a match may move from one status to another.
func CanTransition(from, to MatchStatus) bool {
	if from != MatchSuggested {
		return false
	}
	return to == MatchConfirmed || to == MatchRejected
}

// Default category label when no keyword rule matches a description.
const CategoryOther = "Other"
