package supervisor

import (
	"fmt"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWaitError_NilIsCleanExit(t *testing.T) {
	got := ClassifyWaitError(nil)
	assert.Equal(t, ProcessStatus{Kind: Exited, Code: 0}, got)
}

func TestClassifyWaitError_NonExitErrorIsTerminated(t *testing.T) {
	got := ClassifyWaitError(fmt.Errorf("some unrelated error"))
	assert.Equal(t, Terminated, got.Kind)
}

func TestClassifyWaitError_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell helper")
	}
	cmd := exec.Command("sh", "-c", "exit 42")
	err := cmd.Run()
	got := ClassifyWaitError(err)
	assert.Equal(t, ProcessStatus{Kind: Exited, Code: 42}, got)
}

func TestClassifyWaitError_SignalKilled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell helper")
	}
	cmd := exec.Command("sh", "-c", "kill -TERM $$")
	err := cmd.Run()
	got := ClassifyWaitError(err)
	assert.Equal(t, Terminated, got.Kind)
}
