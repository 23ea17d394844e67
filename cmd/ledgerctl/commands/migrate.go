package commands

import (
	"github.com/spf13/cobra"
)

// migrate up|down: apply or revert the embedded schema migrations.
func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				return st.Migrate()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert every applied migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := openStore()
				if err != nil {
					return err
				}
				defer st.Close()
				return st.MigrateDown()
			},
		},
	)
	return cmd
}
