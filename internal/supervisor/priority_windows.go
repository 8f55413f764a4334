//go:build windows

package supervisor

import (
	"golang.org/x/sys/windows"

	"github.com/mtkennerly/shawl-go/internal/policy"
)

// creationFlags returns the process-creation priority class flag for p, or
// 0 for InheritCaller, which applies no flag at all and lets the child
// inherit the host's own class.
func creationFlags(p policy.Priority) uint32 {
	switch p {
	case policy.Realtime:
		return windows.REALTIME_PRIORITY_CLASS
	case policy.High:
		return windows.HIGH_PRIORITY_CLASS
	case policy.AboveNormal:
		return windows.ABOVE_NORMAL_PRIORITY_CLASS
	case policy.Normal:
		return windows.NORMAL_PRIORITY_CLASS
	case policy.BelowNormal:
		return windows.BELOW_NORMAL_PRIORITY_CLASS
	case policy.Idle:
		return windows.IDLE_PRIORITY_CLASS
	default:
		return 0
	}
}
