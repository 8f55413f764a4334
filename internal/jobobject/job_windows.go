//go:build windows

// Package jobobject wraps a Windows job object configured for
// kill-on-close: assigning a process tree to it ties that tree's lifetime
// to the handle, so releasing the handle is the one reliable way to reap
// grandchildren that outlive a plain process kill.
package jobobject

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ProcessJob owns an anonymous Windows job object. The zero value is not
// usable; construct one with CreateKillOnClose.
type ProcessJob struct {
	handle   windows.Handle
	assigned bool
}

// CreateKillOnClose creates an unnamed job object and sets its
// extended-limit information to include JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE,
// so that Close terminates every process ever assigned to it.
func CreateKillOnClose() (*ProcessJob, error) {
	handle, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("jobobject: CreateJobObject: %w", err)
	}

	var info windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION
	info.BasicLimitInformation.LimitFlags = windows.JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE

	_, err = windows.SetInformationJobObject(
		handle,
		windows.JobObjectExtendedLimitInformation,
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)),
	)
	if err != nil {
		_ = windows.CloseHandle(handle)
		return nil, fmt.Errorf("jobobject: SetInformationJobObject: %w", err)
	}

	return &ProcessJob{handle: handle}, nil
}

// Assign attaches the OS process identified by pid to the job. Idempotent
// per call site: assigning the same or a different process again after a
// prior successful assignment is a normal part of the CREATE_SUSPENDED +
// resume dance the supervisor uses, not an error.
func (j *ProcessJob) Assign(pid int) error {
	if j.handle == 0 {
		return fmt.Errorf("jobobject: handle already closed")
	}

	const access = windows.PROCESS_SET_QUOTA | windows.PROCESS_TERMINATE
	processHandle, err := windows.OpenProcess(access, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("jobobject: OpenProcess(%d): %w", pid, err)
	}
	defer func() { _ = windows.CloseHandle(processHandle) }()

	if err := windows.AssignProcessToJobObject(j.handle, processHandle); err != nil {
		return fmt.Errorf("jobobject: AssignProcessToJobObject: %w", err)
	}

	j.assigned = true
	return nil
}

// Terminate kills every process currently assigned to the job, reporting
// exitCode as their exit status. Unlike Close, the job handle itself
// remains open and may be assigned to again.
func (j *ProcessJob) Terminate(exitCode uint32) error {
	if j.handle == 0 {
		return nil
	}
	if err := windows.TerminateJobObject(j.handle, exitCode); err != nil {
		return fmt.Errorf("jobobject: TerminateJobObject: %w", err)
	}
	return nil
}

// Close releases the job handle. Because the job was created with
// JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE, this terminates every process still
// assigned to it — the host's substitute for an explicit Terminate when it
// wants "stop everything, unconditionally, right now". Safe to call more
// than once.
func (j *ProcessJob) Close() error {
	if j.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(j.handle)
	j.handle = 0
	j.assigned = false
	if err != nil {
		return fmt.Errorf("jobobject: CloseHandle: %w", err)
	}
	return nil
}

// IsAssigned reports whether at least one process has ever been
// successfully assigned to the job.
func (j *ProcessJob) IsAssigned() bool {
	return j.assigned
}
