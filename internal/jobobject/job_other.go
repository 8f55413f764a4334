//go:build !windows

package jobobject

import "errors"

// ErrUnsupported is returned by every ProcessJob operation on non-Windows
// platforms. Job objects are a Windows kernel primitive with no portable
// equivalent; this stub exists only so the module and its platform-neutral
// packages (policy, restart) remain buildable and testable from a
// non-Windows development machine.
var ErrUnsupported = errors.New("jobobject: process-tree kill is only supported on Windows")

// ProcessJob is an inert placeholder on non-Windows builds.
type ProcessJob struct{}

func CreateKillOnClose() (*ProcessJob, error) { return nil, ErrUnsupported }
func (j *ProcessJob) Assign(pid int) error    { return ErrUnsupported }
func (j *ProcessJob) Terminate(code uint32) error { return ErrUnsupported }
func (j *ProcessJob) Close() error            { return nil }
func (j *ProcessJob) IsAssigned() bool        { return false }
