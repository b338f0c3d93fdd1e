package main

import (
	_ "embed"
	"strings"

	"github.com/bossbooker/portal/internal/cli"
	"github.com/bossbooker/portal/internal/logging"
)

//go:embed VERSION
var versionFile string

var executeCLI = cli.Execute

func run() error {
	return executeCLI(strings.TrimSpace(versionFile))
}

func main() {
	if err := run(); err != nil {
		logging.Fatal("bossbooker execution failed", "error", err)
	}
}
