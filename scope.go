package auth

import (
	"sort"
	"strings"
)

// DeriveScope maps a principal's role names to the canonical authorization
// scope: a single-space join, sorted so the result is order independent.
// Duplicates collapse. An empty role set yields an empty scope, not an error.
func DeriveScope(roles []string) string {
	if len(roles) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, len(roles))
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		names = append(names, role)
	}

	sort.Strings(names)
	return strings.Join(names, " ")
}

// ScopeContains reports whether required is one of the space-delimited tokens
// in scope. Matching is exact per token: "ADMIN" does not match a scope
// holding "ADMINISTRATOR".
func ScopeContains(scope, required string) bool {
	if required == "" {
		return true
	}
	for _, token := range strings.Fields(scope) {
		if token == required {
			return true
		}
	}
	return false
}
