package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Run housekeeping once",
	Long:  "Purge expired auth codes and idempotency records, and ledger entries past ledger_retention_days",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.CleanupService.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}

		fmt.Printf("Removed %d auth codes, %d idempotency records, %d ledger entries\n",
			result.AuthCodes, result.IdempotencyRecords, result.LedgerEntries)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
