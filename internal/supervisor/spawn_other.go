//go:build !windows

package supervisor

import (
	"fmt"
	"os/exec"

	"github.com/mtkennerly/shawl-go/internal/policy"
)

// startProcess on non-Windows platforms runs the command without priority
// classes, suspension, or job-object integration — there is no portable
// equivalent, and this package exists on non-Windows only so the
// platform-neutral pieces (env composition, status classification) stay
// buildable and testable away from a Windows machine. See the module's
// design notes for why the core is intentionally not cross-platform.
func startProcess(p policy.SupervisionPolicy, argv []string, suspend bool) (*spawnResult, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = BuildEnv(p)
	if p.Cwd != "" {
		cmd.Dir = p.Cwd
	}

	res := &spawnResult{cmd: cmd}

	if p.CaptureCmdOutput {
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("supervisor: stdout pipe: %w", err)
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			return nil, fmt.Errorf("supervisor: stderr pipe: %w", err)
		}
		res.stdoutPipe = stdout
		res.stderrPipe = stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("supervisor: spawn: %w", err)
	}

	return res, nil
}

// Resume is a no-op on non-Windows builds; startProcess never honors
// suspend here.
func (c *Child) Resume() {}
