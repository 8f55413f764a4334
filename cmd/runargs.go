package cmd

import (
	"strconv"

	"github.com/mtkennerly/shawl-go/internal/logging"
	"github.com/mtkennerly/shawl-go/internal/policy"
)

// buildRunArgs reconstructs the `run` subcommand arguments that reproduce p
// and logOpts, for embedding in the binPath that add registers with SCM.
// The ordering and quoting rules are the ones the round-trip property in §8
// depends on.
func buildRunArgs(name string, p policy.SupervisionPolicy, logOpts logging.Options) []string {
	args := []string{"run", "--name", policy.QuoteIfNeeded(name)}

	if p.StopTimeout > 0 {
		args = append(args, "--stop-timeout", strconv.FormatInt(p.StopTimeout.Milliseconds(), 10))
	}
	if p.RestartDelay > 0 {
		args = append(args, "--restart-delay", strconv.FormatInt(p.RestartDelay.Milliseconds(), 10))
	}

	switch {
	case p.Restart.Always:
		args = append(args, "--restart")
	case p.Restart.Never:
		args = append(args, "--no-restart")
	case len(p.Restart.If) > 0:
		args = append(args, "--restart-if", p.Restart.If.String())
	case len(p.Restart.IfNot) > 0:
		args = append(args, "--restart-if-not", p.Restart.IfNot.String())
	}

	if len(p.PassCodes) > 0 && p.PassCodes.String() != "0" {
		args = append(args, "--pass", p.PassCodes.String())
	}

	if p.Cwd != "" {
		args = append(args, "--cwd", policy.QuoteIfNeeded(p.Cwd))
	}

	if logOpts.Disabled {
		args = append(args, "--no-log")
	}
	if logOpts.DisableCmd {
		args = append(args, "--no-log-cmd")
	}
	if logOpts.Dir != "" {
		args = append(args, "--log-dir", policy.QuoteIfNeeded(logOpts.Dir))
	}
	if logOpts.BaseName != "" && logOpts.BaseName != "shawl_for_"+name {
		args = append(args, "--log-as", policy.QuoteIfNeeded(logOpts.BaseName))
	}
	if logOpts.CmdBaseName != "" {
		args = append(args, "--log-cmd-as", policy.QuoteIfNeeded(logOpts.CmdBaseName))
	}

	if p.StartArgsPassedThrough {
		args = append(args, "--pass-start-args")
	}

	for _, ev := range p.Env {
		args = append(args, "--env", policy.QuoteIfNeeded(ev.Key+"="+ev.Value))
	}
	for _, dir := range p.PathAppend {
		args = append(args, "--path", policy.QuoteIfNeeded(dir))
	}
	for _, dir := range p.PathPrepend {
		args = append(args, "--path-prepend", policy.QuoteIfNeeded(dir))
	}

	if p.Priority != policy.InheritCaller {
		args = append(args, "--priority", p.Priority.String())
	}

	if p.KillProcessTree {
		args = append(args, "--kill-process-tree")
	}

	return args
}

// prepareCommand quotes every token of the wrapped command for embedding
// after "--" in the binPath.
func prepareCommand(command []string) []string {
	out := make([]string, len(command))
	for i, tok := range command {
		out[i] = policy.QuoteIfNeeded(tok)
	}
	return out
}
