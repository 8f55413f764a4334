// Package host implements C6, the control loop that ties the process-job
// handle, child supervisor, restart policy, and SCM adapter together into
// the supervise/restart/drain cycle described in §4.5.
package host

import (
	"github.com/mtkennerly/shawl-go/internal/policy"
	"github.com/mtkennerly/shawl-go/internal/scm"
)

// ErrorServiceSpecificError is ERROR_SERVICE_SPECIFIC_ERROR (1066): the
// Win32ExitCode SCM expects alongside a ServiceSpecificExitCode.
const ErrorServiceSpecificError = 1066

// ErrorProcessAborted is ERROR_PROCESS_ABORTED (1067), reported when a
// child is Terminated, a spawn fails without a usable OS error code, or
// status polling itself fails.
const ErrorProcessAborted = 1067

// MapExitCode implements the pass-code mapping property from §8: the SCM
// exit code is NoError iff code is in passCodes, else ServiceSpecific(code).
func MapExitCode(code int32, passCodes policy.ExitCodeSet) scm.ExitCode {
	if passCodes.Contains(code) {
		return scm.ExitCode{Kind: scm.NoError}
	}
	return scm.ExitCode{Kind: scm.ServiceSpecific, Code: uint32(code)}
}

// SpawnFailureExitCode maps a spawn or supervision failure to a Win32 exit
// code: the raw OS error when one is available, else ERROR_PROCESS_ABORTED.
func SpawnFailureExitCode(rawOSError uint32) scm.ExitCode {
	if rawOSError != 0 {
		return scm.ExitCode{Kind: scm.Win32, Code: rawOSError}
	}
	return scm.ExitCode{Kind: scm.Win32, Code: ErrorProcessAborted}
}

// TerminatedExitCode is the fixed mapping for a Terminated outcome (no
// raw OS error is available: the process simply stopped reporting).
func TerminatedExitCode() scm.ExitCode {
	return scm.ExitCode{Kind: scm.Win32, Code: ErrorProcessAborted}
}
