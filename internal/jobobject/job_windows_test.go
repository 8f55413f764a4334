//go:build windows

package jobobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateKillOnClose_ReturnsValidHandle(t *testing.T) {
	job, err := CreateKillOnClose()
	require.NoError(t, err)
	require.NotNil(t, job)
	defer func() { _ = job.Close() }()

	assert.False(t, job.IsAssigned(), "newly created job should not have assigned processes")
}

func TestProcessJob_Close_ReleasesHandle(t *testing.T) {
	job, err := CreateKillOnClose()
	require.NoError(t, err)

	assert.NoError(t, job.Close())
	assert.NoError(t, job.Close(), "double Close must be safe")
	assert.False(t, job.IsAssigned())
}

func TestProcessJob_Terminate_EmptyJobSucceeds(t *testing.T) {
	job, err := CreateKillOnClose()
	require.NoError(t, err)
	defer func() { _ = job.Close() }()

	assert.NoError(t, job.Terminate(1))
}

func TestProcessJob_DoubleClose_Safe(t *testing.T) {
	job, err := CreateKillOnClose()
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		_ = job.Close()
		_ = job.Close()
	})
}

func TestProcessJob_Assign_InvalidPID(t *testing.T) {
	job, err := CreateKillOnClose()
	require.NoError(t, err)
	defer func() { _ = job.Close() }()

	err = job.Assign(0)
	assert.Error(t, err)
	assert.False(t, job.IsAssigned())
}

func TestProcessJob_Terminate_AfterClose(t *testing.T) {
	job, err := CreateKillOnClose()
	require.NoError(t, err)
	_ = job.Close()

	assert.NoError(t, job.Terminate(1), "Terminate after Close is a no-op")
}
