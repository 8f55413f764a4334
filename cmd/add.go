package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mtkennerly/shawl-go/internal/diagnostics"
	"github.com/mtkennerly/shawl-go/internal/policy"
	"github.com/mtkennerly/shawl-go/internal/scm"
)

var (
	addName         string
	addDependencies string
)

var addCmd = &cobra.Command{
	Use:   "add --name <service-name> [options] -- <command>...",
	Short: "Register a new service",
	Long: `Register a new service with the Windows Service Control Manager.

The service's binPath re-invokes this same shawl executable in "run" mode
with the options given here mirrored onto the command line, so no separate
configuration file or registry entry is needed — the command line recorded
by sc create is the entire configuration.

Example:
  shawl add --name my-service --restart -- C:\path\to\program.exe --flag`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() { //nolint:gochecknoinits
	addCmd.Flags().StringVar(&addName, "name", "", "Name of the service to create")
	addCmd.Flags().StringVar(&addDependencies, "dependencies", "", "Comma-separated list of service dependencies")
	_ = addCmd.MarkFlagRequired("name")
	addFlags := registerCommonFlags(addCmd)
	addCmd.RunE = func(c *cobra.Command, args []string) error {
		return runAddWithFlags(c, args, addFlags)
	}
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, _ []string) error { return nil } // replaced in init; present for clarity

func runAddWithFlags(_ *cobra.Command, args []string, flags *commonFlagValues) error {
	command, err := splitCommand(args)
	if err != nil {
		return err
	}

	p, err := flags.toPolicy(addName, command)
	if err != nil {
		return err
	}

	exeDir, err := executableDir()
	if err != nil {
		return err
	}
	logOpts, err := flags.toLoggingOptions(addName, exeDir)
	if err != nil {
		return err
	}

	shawlPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("unable to determine shawl's own executable path: %w", err)
	}

	binPath := buildBinPath(shawlPath, buildRunArgs(addName, p, logOpts), prepareCommand(command))
	scArgs := buildSCCreateArgs(addName, addDependencies, binPath)

	out, err := exec.Command("sc", scArgs...).CombinedOutput()
	if err != nil {
		color := diagnostics.Resolve()
		fmt.Fprintln(os.Stderr, diagnostics.Bold("Failed to create the service.", color))
		fmt.Fprintln(os.Stderr, diagnostics.Red(string(out), color))
		return fmt.Errorf("sc create failed: %w", err)
	}

	if installErr := scm.InstallEventSource(addName); installErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to register event log source: %v\n", installErr)
	}

	fmt.Printf("Service %q created.\n", addName)
	return nil
}

// buildBinPath assembles the binPath string sc create registers: the
// wrapper's own path, the mirrored run arguments, and the wrapped command.
func buildBinPath(shawlPath string, runArgs, preparedCommand []string) string {
	return fmt.Sprintf("%s %s -- %s",
		policy.QuoteIfNeeded(shawlPath), strings.Join(runArgs, " "), strings.Join(preparedCommand, " "))
}

// buildSCCreateArgs builds the argv for the sc create invocation, including
// an optional depend= clause ("/"-joined per sc.exe's own convention).
func buildSCCreateArgs(name, dependenciesCSV, binPath string) []string {
	args := []string{"create", name}
	if dependenciesCSV != "" {
		deps := strings.Split(dependenciesCSV, ",")
		args = append(args, "depend=", policy.QuoteIfNeeded(strings.Join(deps, "/")))
	}
	return append(args, "binPath=", binPath)
}

// executableDir is the default log directory: next to the wrapper
// executable, unless --log-dir overrides it.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("unable to determine shawl's own executable path: %w", err)
	}
	idx := strings.LastIndexAny(exe, `\/`)
	if idx < 0 {
		return ".", nil
	}
	return exe[:idx], nil
}
