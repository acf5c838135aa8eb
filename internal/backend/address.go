package backend

import "strings"

// apiPrefix is the versioned path every endpoint lives under.
const apiPrefix = "/api/v1"

// NormalizeOrigin turns an operator-supplied origin into a base address that
// never ends in "/" and never carries the API prefix, so appending an
// endpoint path cannot duplicate segments. Repeated prefixes and slashes are
// stripped until the value is stable.
func NormalizeOrigin(origin string) string {
	s := strings.TrimSpace(origin)
	for {
		prev := s
		s = strings.TrimRight(s, "/")
		s = strings.TrimSuffix(s, apiPrefix)
		if s == prev {
			return s
		}
	}
}
