package main

import (
	"os"

	"marketplace-ledger/cmd/ledgerctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
