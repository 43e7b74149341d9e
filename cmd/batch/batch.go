// Package batch ingests a directory of extraction payloads and writes
// one consolidated CSV per bank account.
package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"finbooks/bankrecon/cmd/root"
	"finbooks/bankrecon/internal/bankformat"
	"finbooks/bankrecon/internal/batch"
	"finbooks/bankrecon/internal/categorize"
	"finbooks/bankrecon/internal/export"
	"finbooks/bankrecon/internal/extraction"
	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/normalize"
	"finbooks/bankrecon/internal/statement"
	"finbooks/bankrecon/internal/store"

	"github.com/spf13/cobra"
)

var (
	inputDir  string
	outputDir string
	companyID string
)

// Cmd is the batch command.
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Ingest a directory of extraction payloads, consolidated per account",
	Long: `Batch runs the ingestion pipeline on every .json payload in a
directory, groups the resulting statements by account number, and writes
one chronologically merged CSV per account.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of extraction payload JSON files")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory for consolidated CSV files")
	Cmd.Flags().StringVarP(&companyID, "company", "c", "", "Owning company ID")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("company")
}

func run(cmd *cobra.Command, args []string) error {
	files, err := filepath.Glob(filepath.Join(inputDir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing input directory: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .json payloads in %s", inputDir)
	}

	st, err := openStore()
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

	var stmts []models.BankStatement
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		info, err := os.Stat(file)
		if err != nil {
			return err
		}

		report, err := svc.Process(cmd.Context(), companyID, statement.Upload{
			FileName:     file,
			FileSize:     info.Size(),
			Content:      content,
			DocumentType: root.Cfg.Extraction.DocumentType,
		})
		if err != nil {
			// One bad payload must not sink the batch.
			fmt.Printf("skipping %s: %v\n", filepath.Base(file), err)
			continue
		}
		stmts = append(stmts, *report.Statement)
		fmt.Printf("%s: %d transactions (%s)\n",
			filepath.Base(file), len(report.Statement.Transactions), report.Bank)
	}
	if len(stmts) == 0 {
		return fmt.Errorf("no payloads processed successfully")
	}

	agg := batch.NewAggregator(root.Log)
	for _, group := range agg.GroupByAccount(stmts) {
		merged := models.BankStatement{
			AccountInfo:  group.AccountInfo,
			Transactions: agg.Consolidate(group),
		}
		outPath := filepath.Join(outputDir, agg.OutputName(group))
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		writeErr := export.Statement(f, &merged)
		closeErr := f.Close()
		if writeErr != nil {
			return writeErr
		}
		if closeErr != nil {
			return closeErr
		}
		fmt.Printf("account %s: %d transactions -> %s\n",
			group.AccountNumber, len(merged.Transactions), outPath)
	}
	return nil
}

func openStore() (store.Store, error) {
	if root.Cfg.Store.DSN == "" {
		return store.NewMemory(), nil
	}
	return store.NewGorm(root.Cfg.Store.DSN)
}
