// Package reconcile proposes confidence-scored matches between a
// statement's transactions and general-ledger entries.
package reconcile

import (
	"encoding/json"
	"fmt"
	"os"

	"finbooks/bankrecon/cmd/root"
	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/reconcile"
	"finbooks/bankrecon/internal/report"
	"finbooks/bankrecon/internal/store"

	"github.com/spf13/cobra"
)

var (
	statementFile string
	ledgerFile    string
	threshold     float64
	sessionID     string
	apply         bool
	reportFormat  string
)

// Cmd is the reconcile command.
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Suggest matches between statement transactions and ledger entries",
	RunE:  run,
}

func init() {
	Cmd.Flags().StringVarP(&statementFile, "statement", "s", "", "Statement JSON file")
	Cmd.Flags().StringVarP(&ledgerFile, "ledger", "l", "", "Ledger entries JSON file (defaults to the company's imported ledger)")
	Cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Minimum confidence (defaults to configuration)")
	Cmd.Flags().StringVar(&sessionID, "session", "", "Reconciliation session ID (required with --apply)")
	Cmd.Flags().BoolVar(&apply, "apply", false, "Persist suggestions as suggested matches")
	Cmd.Flags().StringVar(&reportFormat, "report", "", "Print a session summary in the given format (json or text)")
	_ = Cmd.MarkFlagRequired("statement")
}

func run(cmd *cobra.Command, args []string) error {
	var stmt models.BankStatement
	if err := readJSON(statementFile, &stmt); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	var entries []models.LedgerEntry
	if ledgerFile != "" {
		if err := readJSON(ledgerFile, &entries); err != nil {
			return err
		}
	} else {
		entries, err = st.ListLedgerEntries(cmd.Context(), stmt.CompanyID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no imported ledger for company %s; pass --ledger or run the ledger command", stmt.CompanyID)
		}
	}

	minConfidence := threshold
	if minConfidence == 0 {
		minConfidence = root.Cfg.Reconcile.Threshold
	}

	if !apply {
		suggestions := reconcile.AutoMatch(stmt.Transactions, entries, nil, minConfidence, root.Log)
		printSuggestions(suggestions)
		dryRun := make([]models.ReconciliationMatch, 0, len(suggestions))
		for _, s := range suggestions {
			dryRun = append(dryRun, s.ToMatch(sessionID))
		}
		return printReport(sessionID, stmt.Transactions, entries, dryRun)
	}

	if sessionID == "" {
		return fmt.Errorf("--apply requires --session")
	}
	session, err := reconcile.NewSession(cmd.Context(), sessionID, stmt.CompanyID,
		st, stmt.Transactions, entries, root.Log)
	if err != nil {
		return err
	}

	suggestions := reconcile.AutoMatch(stmt.Transactions, entries, session.Matches(), minConfidence, root.Log)
	printSuggestions(suggestions)

	applied, err := session.ApplySuggestions(cmd.Context(), suggestions)
	fmt.Printf("Persisted %d of %d suggestion(s)\n", applied, len(suggestions))
	if err != nil {
		return err
	}
	return printReport(sessionID, stmt.Transactions, entries, session.Matches())
}

func printReport(sessionID string, txs []models.BankTransaction, entries []models.LedgerEntry, matches []models.ReconciliationMatch) error {
	if reportFormat == "" {
		return nil
	}
	gen := report.NewGenerator(root.Log)
	out, err := gen.Render(gen.Build(sessionID, txs, entries, matches), reportFormat)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printSuggestions(suggestions []reconcile.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Println("No matches at or above the confidence threshold")
		return
	}
	for _, s := range suggestions {
		fmt.Printf("%.2f  %s  %s  ->  %s  %s\n",
			s.Confidence,
			s.BankTransaction.Date, s.BankTransaction.Description,
			s.LedgerEntry.Date, s.LedgerEntry.Description)
	}
}

func readJSON(path string, v interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func openStore() (store.Store, error) {
	if root.Cfg.Store.DSN == "" {
		return store.NewMemory(), nil
	}
	return store.NewGorm(root.Cfg.Store.DSN)
}
