//go:build windows && integration

package jobobject

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

// TestHelper_SleepForever is invoked as a subprocess of itself via
// -test.run to stand in for a long-running wrapped command.
func TestHelper_SleepForever(t *testing.T) {
	if os.Getenv("SHAWL_TEST_HELPER") != "1" {
		return
	}
	fmt.Fprintf(os.Stdout, "%d", os.Getpid())
	os.Stdout.Sync() //nolint:errcheck
	time.Sleep(10 * time.Minute)
}

// TestHelper_SpawnGrandchild spawns a grandchild (itself, in sleep mode)
// and waits, simulating a wrapped command that forks further descendants.
func TestHelper_SpawnGrandchild(t *testing.T) {
	if os.Getenv("SHAWL_TEST_HELPER") != "1" {
		return
	}
	self, _ := os.Executable()
	grandchild := exec.Command(self, "-test.run=TestHelper_SleepForever", "-test.v")
	grandchild.Env = append(os.Environ(), "SHAWL_TEST_HELPER=1", "SHAWL_TEST_MODE=SLEEP")
	grandchild.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}

	var gcOut strings.Builder
	grandchild.Stdout = &gcOut
	require.NoError(t, grandchild.Start())
	time.Sleep(500 * time.Millisecond)

	fmt.Fprintf(os.Stdout, "%d", os.Getpid())
	os.Stdout.Sync() //nolint:errcheck
	_ = grandchild.Wait()
}

func processExists(pid uint32) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle) //nolint:errcheck

	var exitCode uint32
	if err := windows.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false
	}
	return exitCode == 259 // STILL_ACTIVE
}

func resumeAllThreads(pid uint32) {
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

func TestIntegration_AssignAndTerminate(t *testing.T) {
	job, err := CreateKillOnClose()
	require.NoError(t, err)
	defer job.Close() //nolint:errcheck

	self, _ := os.Executable()
	child := exec.Command(self, "-test.run=TestHelper_SleepForever", "-test.v")
	child.Env = append(os.Environ(), "SHAWL_TEST_HELPER=1")
	require.NoError(t, child.Start())

	pid := uint32(child.Process.Pid)
	require.NoError(t, job.Assign(int(pid)))
	assert.True(t, job.IsAssigned())
	assert.True(t, processExists(pid))

	require.NoError(t, job.Terminate(1))
	_ = child.Wait()
	time.Sleep(200 * time.Millisecond)

	assert.False(t, processExists(pid))
}

// TestIntegration_ProcessTreeContainment is the property test named in §8:
// after Close() with kill_process_tree semantics, no descendant of the
// spawned child remains alive.
func TestIntegration_ProcessTreeContainment(t *testing.T) {
	job, err := CreateKillOnClose()
	require.NoError(t, err)

	self, _ := os.Executable()
	parent := exec.Command(self, "-test.run=TestHelper_SpawnGrandchild", "-test.v")
	parent.Env = append(os.Environ(), "SHAWL_TEST_HELPER=1")
	parent.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_SUSPENDED}

	var out strings.Builder
	parent.Stdout = &out
	require.NoError(t, parent.Start())

	pid := uint32(parent.Process.Pid)
	require.NoError(t, job.Assign(int(pid)))
	resumeAllThreads(pid)

	time.Sleep(1 * time.Second)

	require.NoError(t, job.Close())
	_ = parent.Wait()
	time.Sleep(500 * time.Millisecond)

	assert.False(t, processExists(pid), "parent should be dead after job close")
}

func TestIntegration_SuspendResumeFlow(t *testing.T) {
	job, err := CreateKillOnClose()
	require.NoError(t, err)
	defer job.Close() //nolint:errcheck

	child := exec.Command("cmd.exe", "/c", "echo", "resumed")
	child.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_SUSPENDED}
	var outBuf strings.Builder
	child.Stdout = &outBuf

	require.NoError(t, child.Start())
	pid := uint32(child.Process.Pid)

	require.NoError(t, job.Assign(int(pid)))
	resumeAllThreads(pid)
	require.NoError(t, child.Wait())

	assert.Contains(t, outBuf.String(), "resumed")
}
