package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

const upgradeRepo = "bossbooker/portal"

var (
	selfUpgradeRequested bool
	selfUpgradeCheckOnly bool
	selfUpgradeAutoYes   bool
)

func setupSelfUpgrade() {
	RootCmd.PersistentFlags().BoolVar(&selfUpgradeRequested, "self-upgrade", false, "Upgrade Boss Booker to the latest release and exit")
	RootCmd.PersistentFlags().BoolVar(&selfUpgradeCheckOnly, "self-upgrade-check", false, "Only check whether a newer release is available")
	RootCmd.PersistentFlags().BoolVar(&selfUpgradeAutoYes, "self-upgrade-yes", false, "Skip confirmation prompts when running --self-upgrade")

	existingPreRun := RootCmd.PersistentPreRunE
	RootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if existingPreRun != nil {
			if err := existingPreRun(cmd, args); err != nil {
				return err
			}
		}

		return handleSelfUpgradeFlags()
	}
}

func handleSelfUpgradeFlags() error {
	if !selfUpgradeRequested && !selfUpgradeCheckOnly {
		return nil
	}

	if err := runSelfUpgrade(selfUpgradeCheckOnly, selfUpgradeAutoYes); err != nil {
		return err
	}

	os.Exit(0)
	return nil
}

func runSelfUpgrade(checkOnly, autoYes bool) error {
	versionStr := strings.TrimSpace(strings.TrimPrefix(Version, "v"))
	if versionStr == "" {
		return errors.New("self-upgrade is only available for release builds")
	}

	current, err := semver.Parse(versionStr)
	if err != nil {
		return fmt.Errorf("invalid current version %q: %w", Version, err)
	}

	fmt.Printf("Checking current version... v%s\n", current)

	fmt.Print("Checking latest released version... ")
	latest, found, err := selfupdate.DetectLatest(upgradeRepo)
	if err != nil {
		fmt.Println()
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	if !found {
		fmt.Println()
		return errors.New("no releases found for Boss Booker")
	}

	latestVer := latest.Version
	fmt.Printf("v%s\n", latestVer)

	if !latestVer.GT(current) {
		fmt.Println("Boss Booker is already up to date")
		return nil
	}

	fmt.Printf("New release found! v%s --> v%s\n", current, latestVer)
	if checkOnly {
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}

	fmt.Println()
	fmt.Println("Boss Booker release status:")
	fmt.Printf("  * Current exe: %q\n", exe)
	fmt.Printf("  * Target OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if latest.AssetURL != "" {
		fmt.Printf("  * Download URL: %s\n", latest.AssetURL)
	}
	fmt.Println()

	if !autoYes {
		fmt.Println("The new release will download and replace the current binary.")
		fmt.Print("Do you want to continue? [Y/n] ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		response = strings.ToLower(strings.TrimSpace(response))
		if response != "" && response != "y" && response != "yes" {
			fmt.Println("Update cancelled.")
			return nil
		}
	}

	fmt.Println("Downloading release...")
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("self-upgrade failed: %w", err)
	}

	fmt.Printf("Updated Boss Booker to v%s\n", latestVer)
	return nil
}
