// Package statement orchestrates the ingestion pipeline: extraction,
// bank detection, normalization, balance correction and categorization,
// ending with the canonical statement persisted.
package statement

import (
	"context"
	"time"

	"finbooks/bankrecon/internal/balance"
	"finbooks/bankrecon/internal/bankformat"
	"finbooks/bankrecon/internal/categorize"
	"finbooks/bankrecon/internal/extraction"
	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/normalize"
	"finbooks/bankrecon/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Upload describes one uploaded statement document.
type Upload struct {
	FileName     string
	FileSize     int64
	Content      []byte
	DocumentType string
}

// ProcessReport carries the diagnostics of one pipeline run alongside the
// resulting statement.
type ProcessReport struct {
	Statement   *models.BankStatement
	Fixes       balance.FixResult
	Validation  balance.ValidationResult
	Diagnostics []string
	Bank        string
}

// Service runs the ingestion pipeline.
type Service struct {
	extractor   extraction.Extractor
	store       store.Store
	registry    *bankformat.Registry
	normalizer  *normalize.Normalizer
	categorizer *categorize.Categorizer
	logger      logging.Logger
}

// NewService wires the pipeline components together.
func NewService(
	extractor extraction.Extractor,
	st store.Store,
	registry *bankformat.Registry,
	normalizer *normalize.Normalizer,
	categorizer *categorize.Categorizer,
	logger logging.Logger,
) *Service {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Service{
		extractor:   extractor,
		store:       st,
		registry:    registry,
		normalizer:  normalizer,
		categorizer: categorizer,
		logger:      logger,
	}
}

// Process ingests one uploaded document for a company. The statement is
// persisted at every lifecycle step, so an extraction failure leaves an
// observable failed record rather than losing the attempt. The returned
// error is non-nil exactly when the run ended in the failed state.
func (s *Service) Process(ctx context.Context, companyID string, up Upload) (*ProcessReport, error) {
	stmt := &models.BankStatement{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		FileName:   up.FileName,
		FileSize:   up.FileSize,
		UploadedAt: time.Now(),
		Status:     models.StatementPending,
	}
	log := s.logger.WithFields(
		logging.Field{Key: logging.FieldStatement, Value: stmt.ID},
		logging.Field{Key: logging.FieldCompany, Value: companyID},
		logging.Field{Key: logging.FieldFile, Value: up.FileName},
	)

	if err := s.store.SaveStatement(ctx, stmt); err != nil {
		return nil, err
	}

	stmt.Status = models.StatementProcessing
	if err := s.store.SaveStatement(ctx, stmt); err != nil {
		return nil, err
	}

	payload, err := s.extractor.Extract(ctx, up.FileName, up.Content, up.DocumentType)
	if err != nil {
		log.WithError(err).Error("Extraction failed")
		return s.fail(ctx, stmt, err)
	}

	report := s.assemble(stmt, payload)

	stmt.Status = models.StatementCompleted
	stmt.ProcessedAt = time.Now()
	if err := s.store.SaveStatement(ctx, stmt); err != nil {
		return nil, err
	}

	log.WithFields(
		logging.Field{Key: logging.FieldBank, Value: report.Bank},
		logging.Field{Key: logging.FieldCount, Value: len(stmt.Transactions)},
	).Info("Statement processed")
	return report, nil
}

// assemble runs detection, normalization, correction and categorization
// on an extracted payload, mutating stmt into its completed shape.
func (s *Service) assemble(stmt *models.BankStatement, payload *extraction.Payload) *ProcessReport {
	handler := s.registry.Detect(payload.RawText, &payload.AccountInfo)

	stmt.AccountInfo = s.normalizer.AccountInfo(payload.AccountInfo, payload.RawText, handler)
	stmt.Summary = s.normalizer.Summary(payload.Summary)

	txs, diags := s.normalizer.Rows(payload.Transactions, handler, stmt.Summary.Period)
	stmt.Transactions = txs

	corrector := balance.NewCorrector(s.logger)
	validation := corrector.Validate(stmt)
	fixes := balance.FixResult{}
	if !validation.Valid {
		fixes = corrector.Fix(stmt)
	}

	s.categorizer.Apply(stmt)
	fillSummaryTotals(stmt)

	return &ProcessReport{
		Statement:   stmt,
		Fixes:       fixes,
		Validation:  validation,
		Diagnostics: diags,
		Bank:        handler.Name(),
	}
}

// fail persists the failed state before surfacing the error.
func (s *Service) fail(ctx context.Context, stmt *models.BankStatement, cause error) (*ProcessReport, error) {
	stmt.Status = models.StatementFailed
	stmt.Error = cause.Error()
	stmt.ProcessedAt = time.Now()
	if err := s.store.SaveStatement(ctx, stmt); err != nil {
		s.logger.WithError(err).Error("Failed to persist failed statement")
	}
	return &ProcessReport{Statement: stmt}, cause
}

// fillSummaryTotals derives the totals the extraction left blank from the
// corrected transactions. Extracted values, when present, stay as ground
// truth.
func fillSummaryTotals(stmt *models.BankStatement) {
	summary := &stmt.Summary
	summary.TransactionCount = len(stmt.Transactions)

	deposits, withdrawals, fees, interest := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i := range stmt.Transactions {
		tx := &stmt.Transactions[i]
		switch tx.Type {
		case models.TypeFee:
			fees = fees.Add(tx.Debit)
		case models.TypeInterest:
			interest = interest.Add(tx.Credit)
		}
		deposits = deposits.Add(tx.Credit)
		withdrawals = withdrawals.Add(tx.Debit)
	}

	if summary.TotalDeposits.IsZero() {
		summary.TotalDeposits = deposits
	}
	if summary.TotalWithdrawals.IsZero() {
		summary.TotalWithdrawals = withdrawals
	}
	if summary.TotalFees.IsZero() {
		summary.TotalFees = fees
	}
	if summary.InterestEarned.IsZero() {
		summary.InterestEarned = interest
	}
}

// Reprocess re-runs the pipeline on a previously uploaded document,
// keeping the statement's identity and upload metadata. The caller
// supplies the document content again; the store only keeps the
// normalized result.
func (s *Service) Reprocess(ctx context.Context, id string, content []byte, docType string) (*ProcessReport, error) {
	stmt, err := s.store.GetStatement(ctx, id)
	if err != nil {
		return nil, err
	}

	stmt.Status = models.StatementProcessing
	stmt.Error = ""
	stmt.Transactions = nil
	if err := s.store.SaveStatement(ctx, stmt); err != nil {
		return nil, err
	}

	payload, err := s.extractor.Extract(ctx, stmt.FileName, content, docType)
	if err != nil {
		return s.fail(ctx, stmt, err)
	}

	report := s.assemble(stmt, payload)

	stmt.Status = models.StatementCompleted
	stmt.ProcessedAt = time.Now()
	if err := s.store.SaveStatement(ctx, stmt); err != nil {
		return nil, err
	}
	return report, nil
}

// Get returns a persisted statement.
func (s *Service) Get(ctx context.Context, id string) (*models.BankStatement, error) {
	return s.store.GetStatement(ctx, id)
}

// List returns a company's statements, newest upload first.
func (s *Service) List(ctx context.Context, companyID string, limit int) ([]models.BankStatement, error) {
	return s.store.ListStatements(ctx, companyID, limit)
}

// Delete removes a statement.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteStatement(ctx, id)
}

// Diagnose replays a persisted statement's balances without mutating it
// and returns the corrections Fix would apply, computed on a copy.
func (s *Service) Diagnose(ctx context.Context, id string) (balance.ValidationResult, balance.FixResult, error) {
	stmt, err := s.store.GetStatement(ctx, id)
	if err != nil {
		return balance.ValidationResult{}, balance.FixResult{}, err
	}

	corrector := balance.NewCorrector(s.logger)
	validation := corrector.Validate(stmt)
	if validation.Valid {
		return validation, balance.FixResult{}, nil
	}

	preview := *stmt
	preview.Transactions = append([]models.BankTransaction(nil), stmt.Transactions...)
	fixes := corrector.Fix(&preview)
	return validation, fixes, nil
}
