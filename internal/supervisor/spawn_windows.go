//go:build windows

package supervisor

import (
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/mtkennerly/shawl-go/internal/policy"
)

// startProcess implements the platform-specific half of §4.2 step 3: apply
// cwd, priority creation flags, and stdio redirection, then spawn. When
// suspend is true CREATE_SUSPENDED is added so the host can assign the
// process to a job object before any of its code — or its own children's
// code — runs; the caller then invokes Resume.
func startProcess(p policy.SupervisionPolicy, argv []string, suspend bool) (*spawnResult, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = BuildEnv(p)
	if p.Cwd != "" {
		cmd.Dir = p.Cwd
	}

	flags := creationFlags(p.Priority)
	if suspend {
		flags |= windows.CREATE_SUSPENDED
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: flags}

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

// Resume enumerates and resumes every thread of the child process. It is a
// no-op (but harmless) if the child was not started suspended. Used after
// the host has assigned the process to a job object, closing the race
// between process creation and job assignment that an unsuspended spawn
// would leave open.
func (c *Child) Resume() {
	pid := uint32(c.cmd.Process.Pid)

	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return
	}
	defer windows.CloseHandle(snapshot) //nolint:errcheck

	var te windows.ThreadEntry32
	te.Size = uint32(unsafe.Sizeof(te))

	err = windows.Thread32First(snapshot, &te)
	for err == nil {
		if te.OwnerProcessID == pid {
			if th, openErr := windows.OpenThread(windows.THREAD_SUSPEND_RESUME, false, te.ThreadID); openErr == nil {
				windows.ResumeThread(th) //nolint:errcheck
				windows.CloseHandle(th)  //nolint:errcheck
			}
		}
		err = windows.Thread32Next(snapshot, &te)
	}
}
