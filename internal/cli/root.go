// Package cli implements the bossbooker command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is stamped by main from the embedded VERSION file.
var Version string

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:   "bossbooker",
	Short: "Lead capture and analytics portal",
	Long: `Boss Booker - lead capture and analytics for the marketing site.

Boss Booker stores visitor profiles, analytics events, contact form leads and
plan signup requests, and serves the admin dashboard API on top of them.`,
	// Default to serve command if no subcommand provided
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runServe()
		}
		return cmd.Help()
	},
}

// Execute is called by main
func Execute(version string) error {
	Version = version
	RootCmd.Version = version
	return RootCmd.Execute()
}

func init() {
	setupSelfUpgrade()
}
