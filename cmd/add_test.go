package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBinPath_QuotesWhereNeeded(t *testing.T) {
	binPath := buildBinPath(
		`C:\Program Files\shawl\shawl.exe`,
		[]string{"run", "--name", "svc"},
		[]string{`"C:\Program Files\app\app.exe"`, "--flag"},
	)
	assert.True(t, strings.HasPrefix(binPath, `"C:\Program Files\shawl\shawl.exe" run --name svc -- `))
	assert.Contains(t, binPath, `"C:\Program Files\app\app.exe" --flag`)
}

func TestBuildSCCreateArgs_NoDependencies(t *testing.T) {
	args := buildSCCreateArgs("svc", "", "binpath string")
	assert.Equal(t, []string{"create", "svc", "binPath=", "binpath string"}, args)
}

func TestBuildSCCreateArgs_WithDependencies(t *testing.T) {
	args := buildSCCreateArgs("svc", "RpcSs,Tcpip", "binpath string")
	assert.Equal(t, []string{"create", "svc", "depend=", "RpcSs/Tcpip", "binPath=", "binpath string"}, args)
}
