package policy

import "fmt"

// Priority selects the Windows process-creation priority class applied to
// the spawned child. InheritCaller means "apply no priority creation flag"
// — the child inherits whatever class the service host itself runs under.
type Priority int

const (
	InheritCaller Priority = iota
	Realtime
	High
	AboveNormal
	Normal
	BelowNormal
	Idle
)

// ParsePriority parses the --priority CLI value.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "realtime":
		return Realtime, nil
	case "high":
		return High, nil
	case "above-normal":
		return AboveNormal, nil
	case "normal":
		return Normal, nil
	case "below-normal":
		return BelowNormal, nil
	case "idle":
		return Idle, nil
	default:
		return InheritCaller, fmt.Errorf("policy: invalid priority %q: valid values are realtime, high, above-normal, normal, below-normal, idle", s)
	}
}

// String renders the canonical CLI spelling, the inverse of ParsePriority.
// InheritCaller has no CLI spelling since omitting --priority is how it is
// selected.
func (p Priority) String() string {
	switch p {
	case Realtime:
		return "realtime"
	case High:
		return "high"
	case AboveNormal:
		return "above-normal"
	case Normal:
		return "normal"
	case BelowNormal:
		return "below-normal"
	case Idle:
		return "idle"
	default:
		return ""
	}
}
