package commands

import (
	"errors"

	"marketplace-ledger/internal/config"
	"marketplace-ledger/internal/logging"
	"marketplace-ledger/internal/store"

	"github.com/spf13/cobra"
)

var (
	cliCfg config.CLIConfig
	dsn    string
)

func Execute() error {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Operate the marketplace ledger database",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg, err := config.LoadLog()
			if err != nil {
				return err
			}
			logging.Init(logCfg)
			cliCfg, err = config.LoadCLI()
			if err != nil {
				return err
			}
			if dsn == "" {
				dsn = cliCfg.PostgresDSN
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dsn, "dsn", "", "postgres DSN (default $POSTGRES_DSN)")

	root.AddCommand(migrateCmd(), seedCmd(), payCmd(), depositCmd())
	return root.Execute()
}

func openStore() (*store.Store, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN required (--dsn or POSTGRES_DSN)")
	}
	return store.New(dsn, cliCfg.LockTimeout)
}
