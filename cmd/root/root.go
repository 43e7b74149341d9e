// Package root contains the root command for the application.
package root

import (
	"finbooks/bankrecon/internal/config"
	"finbooks/bankrecon/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands, configured in the
	// persistent pre-run.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "bankrecon",
		Short: "Normalize bank statements and reconcile them against the ledger.",
		Long: `bankrecon ingests extracted bank statement documents into a canonical
transaction model, repairs debit/credit classification from the balance
column, and matches statement transactions against general-ledger entries
with confidence-scored suggestions.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}
)
