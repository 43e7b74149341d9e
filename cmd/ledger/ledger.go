// Package ledger imports general-ledger entries so reconciliation can
// pull candidates from the store instead of a file on every run.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"

	"finbooks/bankrecon/cmd/root"
	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/store"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	inputFile string
	companyID string
)

// Cmd is the ledger command.
var Cmd = &cobra.Command{
	Use:   "ledger",
	Short: "Import general-ledger entries for a company",
	RunE:  run,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Ledger entries JSON file")
	Cmd.Flags().StringVarP(&companyID, "company", "c", "", "Owning company ID")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("company")
}

func run(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputFile, err)
	}
	var entries []models.LedgerEntry
	if err := json.Unmarshal(content, &entries); err != nil {
		return fmt.Errorf("decoding %s: %w", inputFile, err)
	}
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.SaveLedgerEntries(cmd.Context(), companyID, entries); err != nil {
		return err
	}
	fmt.Printf("Imported %d ledger entries for company %s\n", len(entries), companyID)
	return nil
}

func openStore() (store.Store, error) {
	if root.Cfg.Store.DSN == "" {
		return store.NewMemory(), nil
	}
	return store.NewGorm(root.Cfg.Store.DSN)
}
