package supervisor

import (
	"fmt"
	"os/exec"
	"sync"

	"go.uber.org/zap"

	"github.com/mtkennerly/shawl-go/internal/policy"
)

// Child is a spawned, running (or recently-exited) wrapped command. The
// zero value is not usable; obtain one from Spawn.
type Child struct {
	cmd *exec.Cmd

	mu       sync.Mutex
	finished bool
	status   ProcessStatus
	done     chan struct{}
}

// Pid returns the OS process id, valid once Spawn has returned successfully.
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// Status is the non-blocking poll described in §4.2: Running until the
// background waiter goroutine observes the child finish, then the
// classified terminal ProcessStatus forever after.
func (c *Child) Status() ProcessStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finished {
		return ProcessStatus{Kind: Running}
	}
	return c.status
}

// Wait blocks until the child has finished and returns its terminal status.
func (c *Child) Wait() ProcessStatus {
	<-c.done
	return c.Status()
}

// Kill forcibly terminates the child process directly (not via a job
// object). Used by the host when kill_process_tree is false.
func (c *Child) Kill() error {
	if c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Kill()
}

// spawnResult is shared between the platform-specific starter and the
// common Spawn assembly below.
type spawnResult struct {
	cmd        *exec.Cmd
	stdoutPipe readCloser
	stderrPipe readCloser
}

type readCloser interface {
	Read(p []byte) (int, error)
	Close() error
}

// Spawn composes argv and environment per §4.2, starts the process
// (optionally suspended, for the CREATE_SUSPENDED + job-assign + resume
// sequence the host uses when kill_process_tree is enabled), and — when
// capture_cmd_output is set — starts the two log pump goroutines described
// in the component design. The returned WaitGroup must be joined by the
// caller only after the child has exited, so stale lines are never
// attributed to the next spawn.
//
// When suspend is true, the caller must call Child's platform-specific
// Resume (see spawn_windows.go) before the child will make progress.
func Spawn(p policy.SupervisionPolicy, extraArgs []string, logger *zap.Logger, suspend bool) (*Child, *sync.WaitGroup, error) {
	argv := p.EffectiveCommand(extraArgs)
	if len(argv) == 0 {
		return nil, nil, fmt.Errorf("supervisor: empty command")
	}

	res, err := startProcess(p, argv, suspend)
	if err != nil {
		return nil, nil, err
	}

	child := &Child{cmd: res.cmd, done: make(chan struct{})}

	var wg sync.WaitGroup
	if p.CaptureCmdOutput {
		wg.Add(2)
		go PumpLines(res.stdoutPipe, logger, "stdout", &wg)
		go PumpLines(res.stderrPipe, logger, "stderr", &wg)
	}

	go func() {
		waitErr := res.cmd.Wait()
		status := ClassifyWaitError(waitErr)
		child.mu.Lock()
		child.finished = true
		child.status = status
		child.mu.Unlock()
		close(child.done)
	}()

	return child, &wg, nil
}
