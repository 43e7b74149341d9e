package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/recerror"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// statementRecord is the persisted shape of a BankStatement. Nested
// structures live in JSON columns; the store is a document store with
// query-by-field on the scalar columns.
type statementRecord struct {
	ID           string `gorm:"primaryKey"`
	CompanyID    string `gorm:"index"`
	FileName     string
	FileSize     int64
	UploadedAt   time.Time `gorm:"index"`
	ProcessedAt  time.Time
	Status       string
	AccountInfo  datatypes.JSON
	Summary      datatypes.JSON
	Transactions datatypes.JSON
	Error        string
}

func (statementRecord) TableName() string { return "bank_statements" }

type matchRecord struct {
	ID                string `gorm:"primaryKey"`
	SessionID         string `gorm:"index"`
	BankTransactionID string `gorm:"index"`
	LedgerEntryID     string `gorm:"index"`
	Amount            string
	Status            string `gorm:"index"`
	Confidence        float64
	MatchDate         time.Time
	Notes             string
	Metadata          datatypes.JSON
}

func (matchRecord) TableName() string { return "reconciliation_matches" }

type ledgerRecord struct {
	ID          string `gorm:"primaryKey"`
	CompanyID   string `gorm:"index"`
	Date        string
	Description string
	Debit       string
	Credit      string
	Reference   string
}

func (ledgerRecord) TableName() string { return "ledger_entries" }

// Gorm is the Postgres-backed Store.
type Gorm struct {
	db *gorm.DB
}

// NewGorm opens a Postgres connection and migrates the schema.
func NewGorm(dsn string) (*Gorm, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.AutoMigrate(&statementRecord{}, &matchRecord{}, &ledgerRecord{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Gorm{db: db}, nil
}

func toStatementRecord(stmt *models.BankStatement) (*statementRecord, error) {
	acct, err := json.Marshal(stmt.AccountInfo)
	if err != nil {
		return nil, err
	}
	summary, err := json.Marshal(stmt.Summary)
	if err != nil {
		return nil, err
	}
	txs, err := json.Marshal(stmt.Transactions)
	if err != nil {
		return nil, err
	}
	return &statementRecord{
		ID:           stmt.ID,
		CompanyID:    stmt.CompanyID,
		FileName:     stmt.FileName,
		FileSize:     stmt.FileSize,
		UploadedAt:   stmt.UploadedAt,
		ProcessedAt:  stmt.ProcessedAt,
		Status:       string(stmt.Status),
		AccountInfo:  acct,
		Summary:      summary,
		Transactions: txs,
		Error:        stmt.Error,
	}, nil
}

func fromStatementRecord(rec *statementRecord) (*models.BankStatement, error) {
	stmt := &models.BankStatement{
		ID:          rec.ID,
		CompanyID:   rec.CompanyID,
		FileName:    rec.FileName,
		FileSize:    rec.FileSize,
		UploadedAt:  rec.UploadedAt,
		ProcessedAt: rec.ProcessedAt,
		Status:      models.StatementStatus(rec.Status),
		Error:       rec.Error,
	}
	if len(rec.AccountInfo) > 0 {
		if err := json.Unmarshal(rec.AccountInfo, &stmt.AccountInfo); err != nil {
			return nil, err
		}
	}
	if len(rec.Summary) > 0 {
		if err := json.Unmarshal(rec.Summary, &stmt.Summary); err != nil {
			return nil, err
		}
	}
	if len(rec.Transactions) > 0 {
		if err := json.Unmarshal(rec.Transactions, &stmt.Transactions); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (s *Gorm) SaveStatement(ctx context.Context, stmt *models.BankStatement) error {
	rec, err := toStatementRecord(stmt)
	if err != nil {
		return fmt.Errorf("encoding statement: %w", err)
	}
	return s.db.WithContext(ctx).Save(rec).Error
}

func (s *Gorm) GetStatement(ctx context.Context, id string) (*models.BankStatement, error) {
	var rec statementRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromStatementRecord(&rec)
}

func (s *Gorm) ListStatements(ctx context.Context, companyID string, limit int) ([]models.BankStatement, error) {
	q := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("uploaded_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recs []statementRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make([]models.BankStatement, 0, len(recs))
	for i := range recs {
		stmt, err := fromStatementRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *stmt)
	}
	return out, nil
}

func (s *Gorm) DeleteStatement(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&statementRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMatch checks for an existing active match inside a transaction
// before writing, so two sessions cannot double-book the same bank
// transaction or ledger entry.
func (s *Gorm) CreateMatch(ctx context.Context, m *models.ReconciliationMatch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&matchRecord{}).
			Where("session_id = ? AND status <> ? AND (bank_transaction_id = ? OR ledger_entry_id = ?)",
				m.SessionID, string(models.MatchRejected), m.BankTransactionID, m.LedgerEntryID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return &recerror.MatchConflictError{
				BankTransactionID: m.BankTransactionID,
				LedgerEntryID:     m.LedgerEntryID,
			}
		}

		rec, err := toMatchRecord(m)
		if err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
}

func (s *Gorm) UpdateMatchStatus(ctx context.Context, id string, status models.MatchStatus) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec matchRecord
		err := tx.First(&rec, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !models.CanTransition(models.MatchStatus(rec.Status), status) {
			return &recerror.StateTransitionError{MatchID: id, From: rec.Status, To: string(status)}
		}
		return tx.Model(&matchRecord{}).Where("id = ?", id).
			Update("status", string(status)).Error
	})
}

func (s *Gorm) DeleteMatch(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&matchRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) ListMatches(ctx context.Context, sessionID string) ([]models.ReconciliationMatch, error) {
	var recs []matchRecord
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("match_date ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.ReconciliationMatch, 0, len(recs))
	for i := range recs {
		m, err := fromMatchRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

// SaveLedgerEntries replaces a company's ledger import wholesale; the
// ledger system of record lives upstream, this is only a matching cache.
func (s *Gorm) SaveLedgerEntries(ctx context.Context, companyID string, entries []models.LedgerEntry) error {
	recs := make([]ledgerRecord, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		recs = append(recs, ledgerRecord{
			ID:          e.ID,
			CompanyID:   companyID,
			Date:        e.Date,
			Description: e.Description,
			Debit:       e.Debit.String(),
			Credit:      e.Credit.String(),
			Reference:   e.Reference,
		})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ledgerRecord{}, "company_id = ?", companyID).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.Create(&recs).Error
	})
}

func (s *Gorm) ListLedgerEntries(ctx context.Context, companyID string) ([]models.LedgerEntry, error) {
	var recs []ledgerRecord
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("date ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.LedgerEntry, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		out = append(out, models.LedgerEntry{
			ID:          rec.ID,
			Date:        rec.Date,
			Description: rec.Description,
			Debit:       models.ParseDecimal(rec.Debit),
			Credit:      models.ParseDecimal(rec.Credit),
			Reference:   rec.Reference,
		})
	}
	return out, nil
}

func toMatchRecord(m *models.ReconciliationMatch) (*matchRecord, error) {
	var meta datatypes.JSON
	if len(m.Metadata) > 0 {
		encoded, err := json.Marshal(m.Metadata)
		if err != nil {
			return nil, err
		}
		meta = encoded
	}
	return &matchRecord{
		ID:                m.ID,
		SessionID:         m.SessionID,
		BankTransactionID: m.BankTransactionID,
		LedgerEntryID:     m.LedgerEntryID,
		Amount:            m.Amount.String(),
		Status:            string(m.Status),
		Confidence:        m.Confidence,
		MatchDate:         m.MatchDate,
		Notes:             m.Notes,
		Metadata:          meta,
	}, nil
}

func fromMatchRecord(rec *matchRecord) (*models.ReconciliationMatch, error) {
	m := &models.ReconciliationMatch{
		ID:                rec.ID,
		SessionID:         rec.SessionID,
		BankTransactionID: rec.BankTransactionID,
		LedgerEntryID:     rec.LedgerEntryID,
		Amount:            models.ParseDecimal(rec.Amount),
		Status:            models.MatchStatus(rec.Status),
		Confidence:        rec.Confidence,
		MatchDate:         rec.MatchDate,
		Notes:             rec.Notes,
	}
	if len(rec.Metadata) > 0 {
		if err := json.Unmarshal(rec.Metadata, &m.Metadata); err != nil {
			return nil, err
		}
	}
	return m, nil
}
