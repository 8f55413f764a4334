// Package restart holds the single pure decision of whether the host should
// relaunch the child after it stops running. It reads no clocks and no I/O
// so the decision table in the component design is exhaustively testable.
package restart

import "github.com/mtkennerly/shawl-go/internal/policy"

// Outcome is the terminal disposition of a child process, as classified by
// the supervisor.
type Outcome struct {
	// Exited is true when the OS reported a normal exit code. When false,
	// the process ended without one (killed, crashed, or the supervisor
	// lost track of it) and Code is meaningless.
	Exited bool
	Code   int32
}

// ShouldRestart implements the §4.3 decision table. Terminated outcomes
// (Exited == false) never consult the exit-code sets, because none exists:
// only an explicit Restart.Always overrides the default of not restarting
// an externally-killed process. This asymmetry with the Exited-nonzero
// default (which does restart) is intentional — see the Open Question
// decisions in DESIGN.md.
func ShouldRestart(outcome Outcome, rule policy.RestartRule) bool {
	if !outcome.Exited {
		return rule.Always
	}

	switch {
	case len(rule.If) > 0:
		return rule.If.Contains(outcome.Code)
	case len(rule.IfNot) > 0:
		return !rule.IfNot.Contains(outcome.Code)
	case rule.Always:
		return true
	case rule.Never:
		return false
	default:
		return outcome.Code != 0
	}
}
