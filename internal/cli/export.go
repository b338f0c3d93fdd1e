package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bossbooker/portal/internal/config"
	"github.com/bossbooker/portal/internal/kv"
	"github.com/bossbooker/portal/internal/store"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [collection]",
	Short: "Export stored data",
	Long: `Export stored data without going through the HTTP API.

With no argument, prints a JSON snapshot of every collection. With a
collection name (leads, plan_requests, events, visitors), prints that
collection as CSV.

Example:
  bossbooker export > backup.json
  bossbooker export leads -o leads.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backend, err := kv.NewFile(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open data dir %s: %w", cfg.DataDir, err)
	}
	ds := store.New(backend)

	var payload []byte
	if len(args) == 0 {
		payload, err = json.MarshalIndent(ds.ExportAll(), "", "  ")
		if err != nil {
			return err
		}
		payload = append(payload, '\n')
	} else {
		collection := args[0]
		switch collection {
		case "leads", "plan_requests", "events", "visitors":
		default:
			return fmt.Errorf("unknown collection %q (want leads, plan_requests, events, or visitors)", collection)
		}
		payload = []byte(ds.ExportCSV(collection))
		if len(payload) > 0 {
			payload = append(payload, '\n')
		}
	}

	if exportOutput == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(exportOutput, payload, 0o644)
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	RootCmd.AddCommand(exportCmd)
}
