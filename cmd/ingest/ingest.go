// Package ingest runs the statement ingestion pipeline on a saved
// extraction payload.
package ingest

import (
	"fmt"
	"os"

	"finbooks/bankrecon/cmd/root"
	"finbooks/bankrecon/internal/bankformat"
	"finbooks/bankrecon/internal/categorize"
	"finbooks/bankrecon/internal/export"
	"finbooks/bankrecon/internal/extraction"
	"finbooks/bankrecon/internal/normalize"
	"finbooks/bankrecon/internal/statement"
	"finbooks/bankrecon/internal/store"

	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
	companyID  string
)

// Cmd is the ingest command.
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest an extracted bank statement payload",
	Long: `Ingest runs the full normalization pipeline on a saved extraction
response: bank format detection, amount and date normalization, balance
correction and categorization. The resulting statement is persisted and
can optionally be exported as CSV.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Extraction payload JSON file")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Optional CSV export path")
	Cmd.Flags().StringVarP(&companyID, "company", "c", "", "Owning company ID")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("company")
}

func run(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	info, err := os.Stat(inputFile)
	if err != nil {
		return err
	}

	svc := statement.NewService(
		extraction.Local{},
		st,
		bankformat.NewRegistry(root.Log),
		normalize.New(root.Log),
		categorize.NewFromFile(root.Cfg.Categories.RulesFile, root.Log),
		root.Log,
	)

	report, err := svc.Process(cmd.Context(), companyID, statement.Upload{
		FileName:     inputFile,
		FileSize:     info.Size(),
		Content:      content,
		DocumentType: root.Cfg.Extraction.DocumentType,
	})
	if err != nil {
		return err
	}

	stmt := report.Statement
	fmt.Printf("Statement %s: %d transactions (%s)\n", stmt.ID, len(stmt.Transactions), report.Bank)
	fmt.Printf("Period %s to %s, opening %s, closing %s\n",
		stmt.Summary.Period.From, stmt.Summary.Period.To,
		stmt.Summary.OpeningBalance.StringFixed(2), stmt.Summary.ClosingBalance.StringFixed(2))
	if report.Fixes.TransactionsFixed > 0 {
		fmt.Printf("Balance correction reclassified %d transaction(s)\n", report.Fixes.TransactionsFixed)
	}
	for _, d := range report.Diagnostics {
		fmt.Printf("diagnostic: %s\n", d)
	}

	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		if err := export.Statement(f, stmt); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", outputFile)
	}
	return nil
}

func openStore() (store.Store, error) {
	if root.Cfg.Store.DSN == "" {
		return store.NewMemory(), nil
	}
	return store.NewGorm(root.Cfg.Store.DSN)
}
