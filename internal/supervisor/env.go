// Package supervisor spawns the wrapped command, tracks its status, and
// pumps its captured stdout/stderr to the logger. It is the direct
// implementation of C3, the child supervisor.
package supervisor

import (
	"os"
	"strings"

	"github.com/mtkennerly/shawl-go/internal/policy"
)

const pathKey = "PATH"

// BuildEnv composes the child's environment per §4.2 step 2: the effective
// PATH is prepend ++ inherited ++ append ++ cwd? joined with ';', and the
// policy's env overrides are applied after PATH so they always win.
func BuildEnv(p policy.SupervisionPolicy) []string {
	base := os.Environ()

	inherited := ""
	rest := make([]string, 0, len(base))
	for _, kv := range base {
		key, val, ok := splitEnvVar(kv)
		if ok && strings.EqualFold(key, pathKey) {
			inherited = val
			continue
		}
		rest = append(rest, kv)
	}

	path := effectivePath(p.PathPrepend, inherited, p.PathAppend, p.Cwd)
	result := append(rest, pathKey+"="+path)

	for _, ev := range p.Env {
		result = setEnvVar(result, ev.Key, ev.Value)
	}

	return result
}

// effectivePath joins prepend ++ inherited ++ append ++ cwd (if non-empty)
// with ';', the Windows PATH separator.
func effectivePath(prepend []string, inherited string, append_ []string, cwd string) string {
	parts := make([]string, 0, len(prepend)+len(append_)+2)
	parts = append(parts, prepend...)
	if inherited != "" {
		parts = append(parts, inherited)
	}
	parts = append(parts, append_...)
	if cwd != "" {
		parts = append(parts, cwd)
	}
	return strings.Join(parts, ";")
}

// setEnvVar replaces the KEY=... entry in env if present, else appends it.
// Later calls for the same key win, matching "later entries override
// earlier" from the data model.
func setEnvVar(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

func splitEnvVar(kv string) (key, value string, ok bool) {
	idx := strings.IndexByte(kv, '=')
	if idx < 0 {
		return "", "", false
	}
	return kv[:idx], kv[idx+1:], true
}
