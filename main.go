package main

import (
	"fmt"
	"os"

	"finbooks/bankrecon/cmd/batch"
	"finbooks/bankrecon/cmd/diagnose"
	"finbooks/bankrecon/cmd/ingest"
	"finbooks/bankrecon/cmd/ledger"
	"finbooks/bankrecon/cmd/reconcile"
	"finbooks/bankrecon/cmd/root"
)

func init() {
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(diagnose.Cmd)
	root.Cmd.AddCommand(ledger.Cmd)
	root.Cmd.AddCommand(reconcile.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
