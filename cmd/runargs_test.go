package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtkennerly/shawl-go/internal/logging"
	"github.com/mtkennerly/shawl-go/internal/policy"
)

func TestBuildRunArgs_RestartAlwaysEmitsRestartFlag(t *testing.T) {
	p := policy.New("svc", []string{"prog.exe"})
	p.Restart = policy.RestartRule{Always: true}
	logOpts := logging.DefaultOptions("svc", "")

	args := buildRunArgs("svc", p, logOpts)
	assert.Contains(t, args, "--restart")
	assert.NotContains(t, args, "--no-restart")
}

func TestBuildRunArgs_RestartIfEmitsCodes(t *testing.T) {
	codes, err := policy.ParseExitCodeCSV("1,2,3")
	require.NoError(t, err)
	p := policy.New("svc", []string{"prog.exe"})
	p.Restart = policy.RestartRule{If: codes}
	logOpts := logging.DefaultOptions("svc", "")

	args := buildRunArgs("svc", p, logOpts)
	idx := indexOf(args, "--restart-if")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "1,2,3", args[idx+1])
}

func TestBuildRunArgs_DefaultPassCodeOmitted(t *testing.T) {
	p := policy.New("svc", []string{"prog.exe"})
	logOpts := logging.DefaultOptions("svc", "")

	args := buildRunArgs("svc", p, logOpts)
	assert.NotContains(t, args, "--pass")
}

func TestBuildRunArgs_NonDefaultPassCodeIncluded(t *testing.T) {
	codes, err := policy.ParseExitCodeCSV("0,5")
	require.NoError(t, err)
	p := policy.New("svc", []string{"prog.exe"})
	p.PassCodes = codes
	logOpts := logging.DefaultOptions("svc", "")

	args := buildRunArgs("svc", p, logOpts)
	idx := indexOf(args, "--pass")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "0,5", args[idx+1])
}

func TestBuildRunArgs_EnvAndPathEntriesPreserveOrder(t *testing.T) {
	p := policy.New("svc", []string{"prog.exe"})
	p.Env = []policy.EnvVar{{Key: "A", Value: "1"}, {Key: "B", Value: "2"}}
	p.PathAppend = []string{"C:\\one", "C:\\two"}
	p.PathPrepend = []string{"C:\\zero"}
	logOpts := logging.DefaultOptions("svc", "")

	args := buildRunArgs("svc", p, logOpts)
	envIdx := indicesOf(args, "--env")
	require.Len(t, envIdx, 2)
	assert.Equal(t, "A=1", args[envIdx[0]+1])
	assert.Equal(t, "B=2", args[envIdx[1]+1])

	pathIdx := indicesOf(args, "--path")
	require.Len(t, pathIdx, 2)
	assert.Equal(t, "C:\\one", args[pathIdx[0]+1])
	assert.Equal(t, "C:\\two", args[pathIdx[1]+1])

	prependIdx := indexOf(args, "--path-prepend")
	require.GreaterOrEqual(t, prependIdx, 0)
	assert.Equal(t, "C:\\zero", args[prependIdx+1])
}

func TestPrepareCommand_QuotesTokensWithSpaces(t *testing.T) {
	out := prepareCommand([]string{"C:\\Program Files\\app.exe", "--flag", "plain"})
	assert.Equal(t, `"C:\Program Files\app.exe"`, out[0])
	assert.Equal(t, "--flag", out[1])
	assert.Equal(t, "plain", out[2])
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func indicesOf(s []string, v string) []int {
	var out []int
	for i, x := range s {
		if x == v {
			out = append(out, i)
		}
	}
	return out
}
