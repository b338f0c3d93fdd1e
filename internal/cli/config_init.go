package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bossbooker/portal/internal/middleware"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter bossbooker.toml",
	Long: `Write a starter bossbooker.toml in the current directory.

Prompts for the admin password and generates a site ingest key.

Example:
  bossbooker config init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const configFile = "bossbooker.toml"
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("%s already exists", configFile)
		}

		password, err := readPassword("Admin password: ")
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("admin password cannot be empty")
		}

		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		apiKey := generateAPIKey()

		content := fmt.Sprintf(`port = "8787"
data_dir = "./data"
admin_password = %q
api_keys = %q

# Comma-separated origins allowed by CORS; empty reflects any origin.
trusted_origins = ""

[geo]
enrichment = false
`, password, apiKey)

		if err := os.WriteFile(configFile, []byte(content), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", configFile, err)
		}

		fmt.Printf("Wrote %s\n", configFile)
		fmt.Printf("Site ingest key: %s\n", apiKey)
		return nil
	},
}

func generateAPIKey() string {
	return middleware.KeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// readPassword reads a password from stdin without echoing
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	RootCmd.AddCommand(configCmd)
}
