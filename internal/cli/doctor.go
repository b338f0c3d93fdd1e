package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bossbooker/portal/internal/config"
	"github.com/bossbooker/portal/internal/kv"
	"github.com/bossbooker/portal/internal/middleware"
	"github.com/bossbooker/portal/internal/pricing"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the Boss Booker installation",
	Long: `Run health checks on the Boss Booker installation.

Checks performed:
  - Data directory writable
  - Datastore round-trip
  - Admin password configured
  - API key format
  - Pricing configuration loads
  - GeoIP database exists (when geo enrichment is enabled)

Example:
  bossbooker doctor
  bossbooker doctor --json`,
	RunE: runDoctor,
}

type CheckResult struct {
	Name       string `json:"name"`
	Pass       bool   `json:"pass"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    string `json:"details,omitempty"`
}

func checkDataDirectory(cfg *config.Config) CheckResult {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return CheckResult{
			Name:       "Data Directory Writable",
			Pass:       false,
			Error:      err.Error(),
			Suggestion: "Ensure DATA_DIR has write permissions",
		}
	}

	testFile := filepath.Join(cfg.DataDir, ".doctor-write-test")
	if err := os.WriteFile(testFile, []byte("ok"), 0o644); err != nil {
		return CheckResult{
			Name:       "Data Directory Writable",
			Pass:       false,
			Error:      err.Error(),
			Suggestion: "Ensure DATA_DIR has write permissions",
		}
	}
	_ = os.Remove(testFile)
	return CheckResult{Name: "Data Directory Writable", Pass: true}
}

func checkDatastore(cfg *config.Config) CheckResult {
	backend, err := kv.NewFile(cfg.DataDir)
	if err != nil {
		return CheckResult{Name: "Datastore Round-Trip", Pass: false, Error: err.Error()}
	}

	const probeKey = "bb_doctor_probe"
	if err := backend.Set(probeKey, []byte(`{"ok":true}`)); err != nil {
		return CheckResult{
			Name:       "Datastore Round-Trip",
			Pass:       false,
			Error:      err.Error(),
			Suggestion: "Check disk space and permissions under DATA_DIR",
		}
	}
	if _, err := backend.Get(probeKey); err != nil {
		return CheckResult{Name: "Datastore Round-Trip", Pass: false, Error: err.Error()}
	}
	_ = backend.Delete(probeKey)
	return CheckResult{Name: "Datastore Round-Trip", Pass: true}
}

func checkAdminPassword(cfg *config.Config) CheckResult {
	if cfg.AdminPassword == "" {
		return CheckResult{
			Name:       "Admin Password",
			Pass:       false,
			Error:      "no admin password configured",
			Suggestion: "Set ADMIN_PASSWORD or admin_password in bossbooker.toml",
		}
	}
	if len(cfg.AdminPassword) < 8 {
		return CheckResult{
			Name:       "Admin Password",
			Pass:       true,
			Details:    "shorter than 8 characters",
			Suggestion: "Consider a longer password",
		}
	}
	return CheckResult{Name: "Admin Password", Pass: true}
}

func checkAPIKeys(cfg *config.Config) CheckResult {
	if len(cfg.APIKeys) == 0 {
		return CheckResult{
			Name:       "API Keys",
			Pass:       false,
			Error:      "no site ingest keys configured",
			Suggestion: "Set API_KEYS or api_keys in bossbooker.toml",
		}
	}
	for _, key := range cfg.APIKeys {
		if !strings.HasPrefix(key, middleware.KeyPrefix) {
			return CheckResult{
				Name:       "API Keys",
				Pass:       false,
				Error:      fmt.Sprintf("key %q lacks the %s prefix", key, middleware.KeyPrefix),
				Suggestion: "Site ingest keys must start with " + middleware.KeyPrefix,
			}
		}
	}
	return CheckResult{Name: "API Keys", Pass: true, Details: fmt.Sprintf("%d configured", len(cfg.APIKeys))}
}

func checkPricingConfig(cfg *config.Config) CheckResult {
	backend, err := kv.NewFile(cfg.DataDir)
	if err != nil {
		return CheckResult{Name: "Pricing Configuration", Pass: false, Error: err.Error()}
	}

	loaded := pricing.NewService(backend).Load()
	if len(loaded.Plans) == 0 {
		return CheckResult{
			Name:       "Pricing Configuration",
			Pass:       false,
			Error:      "pricing config has no plans",
			Suggestion: "Reset it via PUT /api/admin/pricing",
		}
	}
	return CheckResult{Name: "Pricing Configuration", Pass: true, Details: fmt.Sprintf("%d plans", len(loaded.Plans))}
}

func checkGeoIPDatabase(cfg *config.Config) CheckResult {
	geoipPath := cfg.GeoIPPath
	if geoipPath == "" {
		geoipPath = filepath.Join(cfg.DataDir, "GeoLite2-City.mmdb")
	}

	info, err := os.Stat(geoipPath)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Name:       "GeoIP Database",
				Pass:       false,
				Error:      "GeoLite2-City.mmdb not found",
				Suggestion: "Database will auto-download on first server start",
			}
		}
		return CheckResult{Name: "GeoIP Database", Pass: false, Error: err.Error()}
	}

	return CheckResult{
		Name:    "GeoIP Database",
		Pass:    true,
		Details: fmt.Sprintf("%.1f MB", float64(info.Size())/(1024*1024)),
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("✗ Configuration Error: %v\n", err)
		return err
	}

	results := []CheckResult{
		checkDataDirectory(cfg),
		checkDatastore(cfg),
		checkAdminPassword(cfg),
		checkAPIKeys(cfg),
		checkPricingConfig(cfg),
	}
	if cfg.GeoEnrichment {
		results = append(results, checkGeoIPDatabase(cfg))
	}

	if jsonOutput {
		outputDoctorJSON(results)
	} else {
		outputDoctorHuman(results)
	}

	for _, r := range results {
		if !r.Pass {
			os.Exit(1)
		}
	}

	return nil
}

func outputDoctorHuman(results []CheckResult) {
	fmt.Println("\n🏥 Boss Booker Health Check")

	for _, r := range results {
		icon := "✓"
		if !r.Pass {
			icon = "✗"
		}

		fmt.Printf("%s %s", icon, r.Name)
		if r.Details != "" {
			fmt.Printf(" (%s)", r.Details)
		}
		fmt.Println()

		if !r.Pass {
			if r.Error != "" {
				fmt.Printf("  Error: %s\n", r.Error)
			}
			if r.Suggestion != "" {
				fmt.Printf("  💡 %s\n", r.Suggestion)
			}
		}
	}
}

func outputDoctorJSON(results []CheckResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(results)
}

func init() {
	doctorCmd.Flags().Bool("json", false, "Output results as JSON")
	RootCmd.AddCommand(doctorCmd)
}
