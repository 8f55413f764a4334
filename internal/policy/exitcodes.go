package policy

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ExitCodeSet is an unordered set of int32 process exit codes, parsed from
// a comma-separated CLI value such as "0,1,42".
type ExitCodeSet map[int32]struct{}

// ParseExitCodeCSV parses a comma-separated list of exit codes. An empty
// string yields an empty (not nil) set.
func ParseExitCodeCSV(csv string) (ExitCodeSet, error) {
	set := make(ExitCodeSet)
	if csv == "" {
		return set, nil
	}
	for _, field := range strings.Split(csv, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.ParseInt(field, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("policy: invalid exit code %q: %w", field, err)
		}
		set[int32(n)] = struct{}{}
	}
	return set, nil
}

// Contains reports whether code is a member of the set.
func (s ExitCodeSet) Contains(code int32) bool {
	_, ok := s[code]
	return ok
}

// String renders the set back to the canonical comma-separated, sorted form.
func (s ExitCodeSet) String() string {
	codes := make([]int32, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.FormatInt(int64(c), 10)
	}
	return strings.Join(parts, ",")
}
