package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mtkennerly/shawl-go/internal/diagnostics"
	"github.com/mtkennerly/shawl-go/internal/host"
	"github.com/mtkennerly/shawl-go/internal/logging"
	"github.com/mtkennerly/shawl-go/internal/scm"
)

var runName string

var runCmd = &cobra.Command{
	Use:   "run --name <service-name> [options] -- <command>...",
	Short: "Host a command as the running service",
	Long: `Host a command as the running service.

This is the mode SCM launches: it is not meant to be invoked directly by a
user. It connects to the service dispatcher, so when started from an
interactive console it returns the dispatcher's connection error without
running the command. Once running under SCM, shawl allocates a console,
which is what lets ctrl-C based graceful stop reach the command.

The flags here are exactly what add mirrors into the binPath it registers,
so a service's entire configuration lives in its own command line.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error { return nil }, // replaced in init
}

func init() { //nolint:gochecknoinits
	runCmd.Flags().StringVar(&runName, "name", "", "Name of the service being hosted")
	_ = runCmd.MarkFlagRequired("name")
	runFlags := registerCommonFlags(runCmd)
	runCmd.RunE = func(c *cobra.Command, args []string) error {
		return runRunWithFlags(c, args, runFlags)
	}
	rootCmd.AddCommand(runCmd)
}

func runRunWithFlags(_ *cobra.Command, args []string, flags *commonFlagValues) error {
	command, err := splitCommand(args)
	if err != nil {
		return err
	}

	p, err := flags.toPolicy(runName, command)
	if err != nil {
		color := diagnostics.Resolve()
		fmt.Fprintln(os.Stderr, diagnostics.Red(fmt.Sprintf("invalid configuration: %v", err), color))
		return err
	}

	exeDir, err := executableDir()
	if err != nil {
		exeDir = "."
	}
	logOpts, err := flags.toLoggingOptions(runName, exeDir)
	if err != nil {
		return err
	}

	logs, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logs.Close() //nolint:errcheck

	isService, _ := scm.IsWindowsService()
	if !isService {
		logs.Wrapper.Info("running interactively; not attached to the Service Control Manager")
	}

	err = scm.RunService(runName, func(ctx *scm.Context) error {
		var extraArgs []string
		if p.StartArgsPassedThrough {
			extraArgs = ctx.StartArgs
		}
		return host.Run(ctx, p, extraArgs, logs.Wrapper, logs.Cmd)
	})
	if err != nil {
		scm.WriteFatal(runName, err.Error())
	}
	return err
}
