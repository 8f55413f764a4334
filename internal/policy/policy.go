// Package policy holds the typed, read-only configuration that flows from
// the add/run command line into the service host. Nothing in this package
// touches the OS: it is pure data plus the parsing and validation rules
// that keep that data self-consistent.
package policy

import (
	"errors"
	"fmt"
	"time"
)

// DefaultStopTimeout is applied when --stop-timeout is not given.
const DefaultStopTimeout = 3 * time.Second

// RestartRule captures the mutually exclusive restart-on-exit inputs. At
// most one of Always/Never/If/IfNot is active; the CLI's mutually exclusive
// flag group and SupervisionPolicy.Validate enforce that.
type RestartRule struct {
	Always bool
	Never  bool
	If     ExitCodeSet
	IfNot  ExitCodeSet
}

// activeCount reports how many of the four restart inputs are set.
func (r RestartRule) activeCount() int {
	n := 0
	if r.Always {
		n++
	}
	if r.Never {
		n++
	}
	if len(r.If) > 0 {
		n++
	}
	if len(r.IfNot) > 0 {
		n++
	}
	return n
}

// SupervisionPolicy is the frozen configuration the host runs with for the
// lifetime of a single service invocation. It is built once, from CLI flags
// or from the arguments SCM supplies to a registered `run` invocation, and
// never mutated afterward.
type SupervisionPolicy struct {
	ServiceName string
	Command     []string

	StartArgsPassedThrough bool

	Cwd string

	Env          []EnvVar
	PathPrepend  []string
	PathAppend   []string
	Priority     Priority
	StopTimeout  time.Duration
	RestartDelay time.Duration
	PassCodes    ExitCodeSet
	Restart      RestartRule

	CaptureCmdOutput bool
	KillProcessTree  bool

	Dependencies []string // add-only; ignored by the host
}

// New returns a SupervisionPolicy with every default spelled out explicitly,
// mirroring the CLI's documented defaults.
func New(name string, command []string) SupervisionPolicy {
	return SupervisionPolicy{
		ServiceName:      name,
		Command:          command,
		StopTimeout:      DefaultStopTimeout,
		PassCodes:        ExitCodeSet{0: struct{}{}},
		CaptureCmdOutput: true,
	}
}

// Validate enforces the mutual-exclusion invariant over the restart inputs
// and the other structural requirements the host assumes hold before it
// starts. It is the configuration layer §7.1 error taxonomy refers to.
func (p SupervisionPolicy) Validate() error {
	if p.ServiceName == "" {
		return errors.New("policy: service name must not be empty")
	}
	if len(p.Command) == 0 {
		return errors.New("policy: command must not be empty")
	}
	if n := p.Restart.activeCount(); n > 1 {
		return errors.New("policy: --restart, --no-restart, --restart-if, and --restart-if-not are mutually exclusive")
	}
	if p.StopTimeout <= 0 {
		return fmt.Errorf("policy: stop timeout must be positive, got %s", p.StopTimeout)
	}
	if p.RestartDelay < 0 {
		return fmt.Errorf("policy: restart delay must not be negative, got %s", p.RestartDelay)
	}
	return nil
}

// EffectiveCommand returns the argv to spawn: the configured command with
// extraArgs (the service-start arguments SCM passed, when
// StartArgsPassedThrough is set) appended.
func (p SupervisionPolicy) EffectiveCommand(extraArgs []string) []string {
	if !p.StartArgsPassedThrough || len(extraArgs) == 0 {
		return p.Command
	}
	out := make([]string, 0, len(p.Command)+len(extraArgs))
	out = append(out, p.Command...)
	out = append(out, extraArgs...)
	return out
}
