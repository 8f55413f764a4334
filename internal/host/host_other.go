//go:build !windows

package host

import (
	"errors"

	"go.uber.org/zap"

	"github.com/mtkennerly/shawl-go/internal/policy"
	"github.com/mtkennerly/shawl-go/internal/scm"
)

// ErrUnsupported is returned by Run on non-Windows platforms: the control
// loop is intrinsically coupled to the Windows Service API, console-group
// signaling, and job objects (see the module's Non-goals).
var ErrUnsupported = errors.New("host: the service control loop is only supported on Windows")

func Run(ctx *scm.Context, p policy.SupervisionPolicy, extraArgs []string, wrapperLog, cmdLog *zap.Logger) error {
	return ErrUnsupported
}
