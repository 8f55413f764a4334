package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtkennerly/shawl-go/internal/logging"
	"github.com/mtkennerly/shawl-go/internal/policy"
)

// commonFlagValues backs the option surface shared by add and run (cli.rs's
// CommonOpts). Both subcommands register an identical set of flags via
// registerCommonFlags and convert them with toPolicy/toLoggingOptions.
type commonFlagValues struct {
	pass           string
	restart        bool
	noRestart      bool
	restartIf      string
	restartIfNot   string
	stopTimeoutMs  int64
	restartDelayMs int64
	noLog          bool
	noLogCmd       bool
	logDir         string
	logAs          string
	logCmdAs       string
	logRotate      string
	logRetain      int
	passStartArgs  bool
	env            []string
	path           []string
	pathPrepend    []string
	priority       string
	cwd            string
	killProcessTree bool
}

func registerCommonFlags(cmd *cobra.Command) *commonFlagValues {
	v := &commonFlagValues{}
	f := cmd.Flags()

	f.StringVar(&v.pass, "pass", "0", "Exit codes reported as success (comma-separated)")
	f.BoolVar(&v.restart, "restart", false, "Always restart the command regardless of the exit code")
	f.BoolVar(&v.noRestart, "no-restart", false, "Never restart the command regardless of the exit code")
	f.StringVar(&v.restartIf, "restart-if", "", "Restart the command if the exit code is one of these (comma-separated)")
	f.StringVar(&v.restartIfNot, "restart-if-not", "", "Restart the command if the exit code is not one of these (comma-separated)")
	f.Int64Var(&v.stopTimeoutMs, "stop-timeout", 3000, "How long to wait in milliseconds between sending the wrapped process a ctrl-C event and forcibly killing it")
	f.Int64Var(&v.restartDelayMs, "restart-delay", 0, "How long to wait in milliseconds before restarting the command")
	f.BoolVar(&v.noLog, "no-log", false, "Disable all of shawl's logging")
	f.BoolVar(&v.noLogCmd, "no-log-cmd", false, "Disable logging of output from the command running as a service")
	f.StringVar(&v.logDir, "log-dir", "", "Write log file to a custom directory (created if missing)")
	f.StringVar(&v.logAs, "log-as", "", "Custom basename for the wrapper log")
	f.StringVar(&v.logCmdAs, "log-cmd-as", "", "Route child output to a separate log basename")
	f.StringVar(&v.logRotate, "log-rotate", "", "daily | hourly | bytes=N (default bytes=2097152)")
	f.IntVar(&v.logRetain, "log-retain", 2, "Number of rotated log files to keep")
	f.BoolVar(&v.passStartArgs, "pass-start-args", false, "Append the service start arguments to the command")
	f.StringArrayVar(&v.env, "env", nil, "Additional environment variable in the format 'KEY=value' (repeatable)")
	f.StringArrayVar(&v.path, "path", nil, "Additional directory appended to PATH (repeatable)")
	f.StringArrayVar(&v.pathPrepend, "path-prepend", nil, "Additional directory prepended to PATH (repeatable)")
	f.StringVar(&v.priority, "priority", "", "realtime|high|above-normal|normal|below-normal|idle")
	f.StringVar(&v.cwd, "cwd", "", "Working directory for the command")
	f.BoolVar(&v.killProcessTree, "kill-process-tree", false, "Use a job object to terminate the whole descendant process tree on stop")

	cmd.MarkFlagsMutuallyExclusive("restart", "no-restart", "restart-if", "restart-if-not")

	return v
}

// toPolicy builds a SupervisionPolicy from the parsed flags plus the
// positional name/command the caller extracted separately.
func (v *commonFlagValues) toPolicy(name string, command []string) (policy.SupervisionPolicy, error) {
	p := policy.New(name, command)
	p.StartArgsPassedThrough = v.passStartArgs
	p.Cwd = v.cwd
	p.CaptureCmdOutput = !v.noLogCmd
	p.KillProcessTree = v.killProcessTree
	p.StopTimeout = time.Duration(v.stopTimeoutMs) * time.Millisecond
	p.RestartDelay = time.Duration(v.restartDelayMs) * time.Millisecond
	p.Restart = policy.RestartRule{Always: v.restart, Never: v.noRestart}

	var err error
	if p.PassCodes, err = policy.ParseExitCodeCSV(v.pass); err != nil {
		return policy.SupervisionPolicy{}, err
	}
	if p.Restart.If, err = policy.ParseExitCodeCSV(v.restartIf); err != nil {
		return policy.SupervisionPolicy{}, err
	}
	if p.Restart.IfNot, err = policy.ParseExitCodeCSV(v.restartIfNot); err != nil {
		return policy.SupervisionPolicy{}, err
	}
	for _, raw := range v.env {
		ev, err := policy.ParseEnvVar(raw)
		if err != nil {
			return policy.SupervisionPolicy{}, err
		}
		p.Env = append(p.Env, ev)
	}
	p.PathAppend = v.path
	p.PathPrepend = v.pathPrepend

	if v.priority != "" {
		if p.Priority, err = policy.ParsePriority(v.priority); err != nil {
			return policy.SupervisionPolicy{}, err
		}
	}

	if err := p.Validate(); err != nil {
		return policy.SupervisionPolicy{}, err
	}
	return p, nil
}

// toLoggingOptions builds the ambient logging configuration, independent of
// the supervision policy.
func (v *commonFlagValues) toLoggingOptions(name, defaultDir string) (logging.Options, error) {
	opts := logging.DefaultOptions(name, defaultDir)
	opts.Disabled = v.noLog
	opts.DisableCmd = v.noLogCmd
	if v.logDir != "" {
		opts.Dir = v.logDir
	}
	if v.logAs != "" {
		opts.BaseName = v.logAs
	}
	opts.CmdBaseName = v.logCmdAs
	opts.Retain = v.logRetain

	rotation, err := logging.ParseRotationSpec(v.logRotate)
	if err != nil {
		return logging.Options{}, err
	}
	opts.Rotation = rotation
	return opts, nil
}

// splitCommand separates the "-- <command>..." tail cobra leaves in args
// after flag parsing from any leading positional arguments the caller
// already consumed (there are none for add/run: command is always
// everything after "--").
func splitCommand(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("a command to run is required after --")
	}
	return args, nil
}
