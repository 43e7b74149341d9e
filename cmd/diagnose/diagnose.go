// Package diagnose validates a statement's balance progression and
// previews the corrections that would be applied.
package diagnose

import (
	"encoding/json"
	"fmt"
	"os"

	"finbooks/bankrecon/cmd/root"
	"finbooks/bankrecon/internal/balance"
	"finbooks/bankrecon/internal/models"

	"github.com/spf13/cobra"
)

var inputFile string

// Cmd is the diagnose command.
var Cmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Validate a statement's balance progression",
	Long: `Diagnose replays the running balance of a processed statement and
reports every transaction whose stated balance disagrees with the
progression, plus any closing-balance mismatch. Corrections are shown as
a preview and never applied.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Statement JSON file")
	_ = Cmd.MarkFlagRequired("input")
}

func run(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var stmt models.BankStatement
	if err := json.Unmarshal(content, &stmt); err != nil {
		return fmt.Errorf("decoding statement: %w", err)
	}

	corrector := balance.NewCorrector(root.Log)
	validation := corrector.Validate(&stmt)
	if validation.Valid {
		fmt.Println("Balance progression is consistent")
		return nil
	}

	fmt.Printf("Balance validation failed with %d discrepanc(ies):\n", len(validation.Errors))
	for _, e := range validation.Errors {
		fmt.Printf("  %s\n", e.String())
	}

	// Preview corrections on a copy; the statement on disk is untouched.
	preview := stmt
	preview.Transactions = append([]models.BankTransaction(nil), stmt.Transactions...)
	fixes := corrector.Fix(&preview)
	fmt.Printf("Suggested corrections: %d transaction(s) reclassified\n", fixes.TransactionsFixed)
	for _, d := range fixes.Details {
		fmt.Printf("  transaction %d (%s): %s -> %s %s\n",
			d.Index, d.Description, d.Previous.StringFixed(2), d.Field, d.Corrected.StringFixed(2))
	}
	return nil
}
