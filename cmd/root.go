// Package cmd implements the shawl Cobra command tree: the thin external
// boundary the service host consumes (§6).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version, Commit, and Date are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "shawl",
	Short: "Wrap any command line as a Windows service",
	Long: `shawl - Wrap any command line as a Windows service

Registers an arbitrary command with the Windows Service Control Manager and
then, when SCM starts that service, hosts it: supervising the child process,
restarting it per policy, forwarding a graceful stop, and reporting its exit
back to SCM.

Modes:
  add  Register a new service whose binPath re-invokes shawl in run mode.
  run  Service-host mode; launched by SCM, not by a user.

Examples:
  shawl add --name my-service -- C:\path\to\program.exe --some-flag
  sc start my-service
  sc stop my-service`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint:gochecknoinits
	rootCmd.SetVersionTemplate(fmt.Sprintf("shawl version {{.Version}} (commit: %s, built: %s)\n", Commit, Date))
}
