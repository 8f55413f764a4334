//go:build windows

package scm

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows/svc/eventlog"
)

// InstallEventSource registers name as an event log source so Windows Event
// Viewer can resolve the category/message strings the host writes via
// WriteFatal. Safe to call from add (idempotent: install failures because
// the source already exists are not reported as errors).
func InstallEventSource(name string) error {
	err := eventlog.InstallAsEventCreate(name, eventlog.Error|eventlog.Warning|eventlog.Info)
	if err != nil && !isAlreadyExists(err) {
		return fmt.Errorf("scm: installing event source: %w", err)
	}
	return nil
}

// RemoveEventSource undoes InstallEventSource.
func RemoveEventSource(name string) error {
	return eventlog.Remove(name)
}

// WriteFatal records a fatal, pre-Stopped condition (e.g. a control-handler
// registration failure) to the Windows Event Log, per §7 item 6: such
// errors propagate out of the host entry point, and SCM's own failure
// record benefits from an accompanying Event Log entry an operator can find
// without a log file.
func WriteFatal(name string, message string) {
	elog, err := eventlog.Open(name)
	if err != nil {
		return
	}
	defer elog.Close() //nolint:errcheck
	_ = elog.Error(1, message)
}

func isAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists")
}
