package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtkennerly/shawl-go/internal/policy"
)

func newFlagsUnderTest(t *testing.T, extraArgs ...string) *commonFlagValues {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	flags := registerCommonFlags(cmd)
	cmd.SetArgs(extraArgs)
	require.NoError(t, cmd.Execute())
	return flags
}

func TestToPolicy_DefaultsMatchPolicyNew(t *testing.T) {
	flags := newFlagsUnderTest(t)
	p, err := flags.toPolicy("svc", []string{"prog.exe"})
	require.NoError(t, err)

	assert.Equal(t, policy.DefaultStopTimeout, p.StopTimeout)
	assert.True(t, p.PassCodes.Contains(0))
	assert.True(t, p.CaptureCmdOutput)
}

func TestToPolicy_RestartMutualExclusionRejected(t *testing.T) {
	cmd := &cobra.Command{
		Use:           "test",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(*cobra.Command, []string) error { return nil },
	}
	registerCommonFlags(cmd)
	cmd.SetArgs([]string{"--restart", "--no-restart"})
	err := cmd.Execute()
	assert.Error(t, err, "cobra should enforce the mutual exclusion group before RunE runs")
}

func TestToPolicy_NoLogCmdDisablesCapture(t *testing.T) {
	flags := newFlagsUnderTest(t, "--no-log-cmd")
	p, err := flags.toPolicy("svc", []string{"prog.exe"})
	require.NoError(t, err)
	assert.False(t, p.CaptureCmdOutput)
}

func TestToPolicy_KillProcessTreeFlag(t *testing.T) {
	flags := newFlagsUnderTest(t, "--kill-process-tree")
	p, err := flags.toPolicy("svc", []string{"prog.exe"})
	require.NoError(t, err)
	assert.True(t, p.KillProcessTree)
}

func TestToPolicy_PriorityParsed(t *testing.T) {
	flags := newFlagsUnderTest(t, "--priority", "high")
	p, err := flags.toPolicy("svc", []string{"prog.exe"})
	require.NoError(t, err)
	assert.Equal(t, policy.High, p.Priority)
}

func TestToPolicy_InvalidPriorityRejected(t *testing.T) {
	flags := newFlagsUnderTest(t, "--priority", "not-a-priority")
	_, err := flags.toPolicy("svc", []string{"prog.exe"})
	assert.Error(t, err)
}

func TestToPolicy_EnvEntriesParsed(t *testing.T) {
	flags := newFlagsUnderTest(t, "--env", "FOO=bar", "--env", "BAZ=qux")
	p, err := flags.toPolicy("svc", []string{"prog.exe"})
	require.NoError(t, err)
	require.Len(t, p.Env, 2)
	assert.Equal(t, policy.EnvVar{Key: "FOO", Value: "bar"}, p.Env[0])
	assert.Equal(t, policy.EnvVar{Key: "BAZ", Value: "qux"}, p.Env[1])
}

func TestToLoggingOptions_DefaultsToServiceName(t *testing.T) {
	flags := newFlagsUnderTest(t)
	opts, err := flags.toLoggingOptions("svc", "C:\\logs")
	require.NoError(t, err)
	assert.Equal(t, "shawl_for_svc", opts.BaseName)
	assert.Equal(t, "C:\\logs", opts.Dir)
}

func TestToLoggingOptions_NoLogDisables(t *testing.T) {
	flags := newFlagsUnderTest(t, "--no-log")
	opts, err := flags.toLoggingOptions("svc", "")
	require.NoError(t, err)
	assert.True(t, opts.Disabled)
}

func TestSplitCommand_RequiresAtLeastOneToken(t *testing.T) {
	_, err := splitCommand(nil)
	assert.Error(t, err)
}
