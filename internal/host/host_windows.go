//go:build windows

package host

import (
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/mtkennerly/shawl-go/internal/jobobject"
	"github.com/mtkennerly/shawl-go/internal/policy"
	"github.com/mtkennerly/shawl-go/internal/restart"
	"github.com/mtkennerly/shawl-go/internal/scm"
	"github.com/mtkennerly/shawl-go/internal/supervisor"
)

// pollInterval is the graceful-stop polling cadence from §5.
const pollInterval = 50 * time.Millisecond

// tickInterval is the inner-loop status poll cadence from the pseudoflow
// ("loop 'inner (once per second)").
const tickInterval = 1 * time.Second

// ignoreCtrlC is the process-wide atomic flag from the design notes: raised
// around the GenerateConsoleCtrlEvent broadcast window so the host's own
// process does not abort itself from its own Ctrl+C, lowered immediately
// after.
var ignoreCtrlC atomic.Bool

// installCtrlCGuard wires a process-wide Ctrl+C handler that ignores the
// signal while ignoreCtrlC is set and otherwise aborts the process. This is
// a safety net for direct-invocation testing (SCM itself never sends
// Ctrl+C to a service host); it must be installed once, before the first
// child is spawned.
func installCtrlCGuard() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		for range ch {
			if ignoreCtrlC.Load() {
				continue
			}
			os.Exit(1)
		}
	}()
}

// ensureConsole allocates a console for the process. SCM starts services
// without one, and the graceful-stop protocol needs a console group to
// deliver Ctrl+C to the child tree. AllocConsole failing because a console
// already exists (e.g. direct invocation from a terminal) is not an error.
func ensureConsole() {
	_ = windows.AllocConsole()
}

// Run is the C6 control loop: it owns every SCM-reported state transition
// from the point RunService hands it a Context until it returns. extraArgs
// are the service-start arguments SCM supplied (minus the service name),
// appended to the command when StartArgsPassedThrough is set.
func Run(ctx *scm.Context, p policy.SupervisionPolicy, extraArgs []string, wrapperLog, cmdLog *zap.Logger) error {
	ensureConsole()
	installCtrlCGuard()

	var job *jobobject.ProcessJob
	if p.KillProcessTree {
		j, err := jobobject.CreateKillOnClose()
		if err != nil {
			wrapperLog.Error("failed to create job object; continuing without process-tree kill", zap.Error(err))
		} else {
			job = j
			defer job.Close() //nolint:errcheck
		}
	}

	ctx.Report(scm.RunningState, scm.AcceptStopAndShutdown, scm.ExitCode{Kind: scm.NoError}, 0)

	finalExit := scm.ExitCode{Kind: scm.NoError}
	var pendingDelay time.Duration

outer:
	for {
		if pendingDelay > 0 {
			if drained := sleepWithDrainCheck(ctx.Stop, pendingDelay); drained {
				finalExit = scm.ExitCode{Kind: scm.NoError}
				break outer
			}
			pendingDelay = 0
		}

		child, pumpWg, err := supervisor.Spawn(p, extraArgs, cmdLog, job != nil)
		if err != nil {
			wrapperLog.Error("failed to spawn command", zap.Error(err))
			finalExit = SpawnFailureExitCode(rawOSError(err))
			break outer
		}

		if job != nil {
			if assignErr := job.Assign(child.Pid()); assignErr != nil {
				wrapperLog.Error("failed to assign child to job object", zap.Error(assignErr))
			}
			child.Resume()
		}

		exit, shouldBreakOuter := runInnerLoop(ctx, child, job, p, wrapperLog)
		finalExit = exit

		pumpWg.Wait()

		if shouldBreakOuter {
			break outer
		}

		if p.RestartDelay > 0 {
			pendingDelay = p.RestartDelay
		}
	}

	ctx.Report(scm.StoppedState, scm.AcceptNone, finalExit, 0)
	return nil
}

// runInnerLoop drives one spawned child until it exits, is killed during a
// graceful stop, or the host decides (via the restart policy) to relaunch
// it. It returns the exit code observed and whether the outer loop should
// terminate (true) or relaunch (false).
func runInnerLoop(ctx *scm.Context, child *supervisor.Child, job *jobobject.ProcessJob, p policy.SupervisionPolicy, log *zap.Logger) (scm.ExitCode, bool) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Stop:
			return gracefulStop(ctx, child, job, p, log)

		case <-ticker.C:
			status := child.Status()
			switch status.Kind {
			case supervisor.Running:
				continue
			case supervisor.Exited:
				exit := MapExitCode(status.Code, p.PassCodes)
				restartNow := restart.ShouldRestart(restart.Outcome{Exited: true, Code: status.Code}, p.Restart)
				return exit, !restartNow
			case supervisor.Terminated:
				exit := TerminatedExitCode()
				restartNow := restart.ShouldRestart(restart.Outcome{Exited: false}, p.Restart)
				return exit, !restartNow
			}
		}
	}
}

// gracefulStop implements the StopPending branch of the pseudoflow: report
// StopPending, broadcast Ctrl+C to the console group (ignoring the bounce
// back to this process), wait up to stop_timeout_ms for the child to exit
// on its own, and force-kill it (via the job, if configured, else directly)
// if it hasn't.
func gracefulStop(ctx *scm.Context, child *supervisor.Child, job *jobobject.ProcessJob, p policy.SupervisionPolicy, log *zap.Logger) (scm.ExitCode, bool) {
	waitHint := p.StopTimeout + time.Second
	ctx.Report(scm.StopPendingState, scm.AcceptNone, scm.ExitCode{Kind: scm.NoError}, waitHint)

	ignoreCtrlC.Store(true)
	if err := windows.GenerateConsoleCtrlEvent(windows.CTRL_C_EVENT, 0); err != nil {
		log.Warn("failed to broadcast Ctrl+C to console group", zap.Error(err))
	}

	deadline := time.Now().Add(p.StopTimeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var final supervisor.ProcessStatus
	for time.Now().Before(deadline) {
		final = child.Status()
		if final.Kind != supervisor.Running {
			break
		}
		<-ticker.C
	}
	if final.Kind == supervisor.Running {
		final = child.Status()
	}

	var exit scm.ExitCode
	switch final.Kind {
	case supervisor.Exited:
		exit = MapExitCode(final.Code, p.PassCodes)
	case supervisor.Terminated:
		exit = TerminatedExitCode()
	default: // still Running: force-kill
		if job != nil {
			if err := job.Close(); err != nil {
				log.Warn("failed to close job object during forced stop", zap.Error(err))
			}
		} else if err := child.Kill(); err != nil {
			log.Warn("failed to kill child during forced stop", zap.Error(err))
		}
		child.Wait()
		exit = scm.ExitCode{Kind: scm.NoError}
	}

	ignoreCtrlC.Store(false)
	return exit, true
}

// sleepWithDrainCheck sleeps for d, subdivided into poll-sized checks so a
// stop request remains responsive during a restart delay, per §5. It
// returns true if a stop arrived during the sleep.
func sleepWithDrainCheck(stop <-chan struct{}, d time.Duration) bool {
	deadline := time.Now().Add(d)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for time.Now().Before(deadline) {
		select {
		case <-stop:
			return true
		case <-ticker.C:
		}
	}
	return false
}

// rawOSError extracts a Win32 error code from a spawn error when available.
func rawOSError(err error) uint32 {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	return 0
}
