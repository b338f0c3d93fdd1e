package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bossbooker/portal/internal/config"
	"github.com/bossbooker/portal/internal/kv"
	"github.com/bossbooker/portal/internal/store"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear analytics data",
	Long: `Clear all visitors, events, leads and plan requests from the datastore.

Accepted clients are kept. Refuses to run without --yes.

Example:
  bossbooker clear --yes`,
	RunE: runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to clear without --yes")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backend, err := kv.NewFile(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open data dir %s: %w", cfg.DataDir, err)
	}
	ds := store.New(backend)

	if !ds.ClearAll(true) {
		return fmt.Errorf("clear failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cleared visitors, events, leads and plan requests.")
	return nil
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm clearing all analytics data")
	RootCmd.AddCommand(clearCmd)
}
