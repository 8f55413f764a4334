//go:build windows

// Package scm is the C5 SCM adapter: it registers a control handler with
// the Windows Service Control Manager, translates its change requests into
// the host's drain signal, and exposes the status setter the host uses to
// report StartPending/Running/StopPending/Stopped.
package scm

import (
	"time"

	"golang.org/x/sys/windows/svc"
)

// State mirrors the ServiceState mirror described in §3.
type State int

const (
	StartPending State = iota
	RunningState
	StopPendingState
	StoppedState
)

func (s State) toSvc() svc.State {
	switch s {
	case StartPending:
		return svc.StartPending
	case RunningState:
		return svc.Running
	case StopPendingState:
		return svc.StopPending
	default:
		return svc.Stopped
	}
}

// ExitKind tags the three SCM exit-code shapes from the data model.
type ExitKind int

const (
	NoError ExitKind = iota
	ServiceSpecific
	Win32
)

// ExitCode is the final ExitCode reported with the Stopped state.
type ExitCode struct {
	Kind ExitKind
	Code uint32
}

// Accepted controls are announced while Running and withdrawn otherwise, per
// §4.4.
type Accepted int

const (
	AcceptNone Accepted = iota
	AcceptStopAndShutdown
)

func (a Accepted) toSvc() svc.Accepted {
	if a == AcceptStopAndShutdown {
		return svc.AcceptStop | svc.AcceptShutdown
	}
	return 0
}

// Context is handed to the host's run function. Stop fires exactly once,
// when the SCM delivers a Stop or Shutdown control; it is never closed
// again and the host must not attempt to read further requests through it
// — draining is a one-shot transition into StopPending.
type Context struct {
	Stop <-chan struct{}
	// StartArgs are the extra arguments SCM passed to this start of the
	// service (e.g. via "sc start name arg1 arg2"), exposed so the host can
	// append them to the command when pass_start_args is enabled.
	StartArgs []string
	report    func(State, Accepted, ExitCode, time.Duration)
}

// Report sets the externally-visible service status. waitHint is only
// meaningful for StopPendingState.
func (c *Context) Report(state State, accepted Accepted, exitCode ExitCode, waitHint time.Duration) {
	c.report(state, accepted, exitCode, waitHint)
}

// RunService registers name with the service dispatcher and blocks until
// run returns. run receives a Context bound to this registration; its
// return value becomes the service's overall success/failure as seen by
// svc.Run (not the reported ExitCode, which run communicates itself via
// Context.Report before returning).
func RunService(name string, run func(ctx *Context) error) error {
	return svc.Run(name, &handler{run: run})
}

// IsWindowsService reports whether the current process was launched by the
// service control manager, as opposed to a console for direct testing.
func IsWindowsService() (bool, error) {
	return svc.IsWindowsService()
}

type handler struct {
	run func(ctx *Context) error
}

func (h *handler) Execute(args []string, requests <-chan svc.ChangeRequest, statusChan chan<- svc.Status) (bool, uint32) {
	stopCh := make(chan struct{})
	var stopOnce bool

	var startArgs []string
	if len(args) > 1 {
		startArgs = args[1:]
	}

	reportFn := func(state State, accepted Accepted, exitCode ExitCode, waitHint time.Duration) {
		status := svc.Status{
			State:    state.toSvc(),
			Accepts:  accepted.toSvc(),
			WaitHint: uint32(waitHint / time.Millisecond),
		}
		switch exitCode.Kind {
		case ServiceSpecific:
			status.Win32ExitCode = 1066 // ERROR_SERVICE_SPECIFIC_ERROR
			status.ServiceSpecificExitCode = exitCode.Code
		case Win32:
			status.Win32ExitCode = exitCode.Code
		}
		statusChan <- status
	}

	ctx := &Context{Stop: stopCh, StartArgs: startArgs, report: reportFn}

	runErrCh := make(chan error, 1)
	go func() { runErrCh <- h.run(ctx) }()

	lastStatus := svc.Status{State: svc.StartPending}

	for {
		select {
		case err := <-runErrCh:
			if err != nil {
				return false, 1
			}
			return false, 0

		case req := <-requests:
			switch req.Cmd {
			case svc.Interrogate:
				statusChan <- req.CurrentStatus
				lastStatus = req.CurrentStatus
			case svc.Stop, svc.Shutdown:
				if !stopOnce {
					stopOnce = true
					close(stopCh)
				}
			default:
				statusChan <- lastStatus
			}
		}
	}
}
