package directory

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher selects users whose name or login code matches a glob pattern.
// Matching is case-insensitive; a pattern without wildcards matches as a substring.
type Matcher struct {
	pattern glob.Glob
}

// NewMatcher compiles pattern. An empty pattern matches everyone.
func NewMatcher(pattern string) (*Matcher, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		pattern = "*"
	}
	if !strings.ContainsAny(pattern, "*?[{") {
		pattern = "*" + pattern + "*"
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("directory: invalid search pattern %q: %w", pattern, err)
	}
	return &Matcher{pattern: g}, nil
}

// Match reports whether u matches.
func (m *Matcher) Match(u User) bool {
	return m.pattern.Match(strings.ToLower(u.FullName())) ||
		m.pattern.Match(strings.ToLower(u.LastName)) ||
		m.pattern.Match(u.LoginCode)
}

// FilterUsers returns the users matching pattern, keeping their order.
func FilterUsers(users []User, pattern string) ([]User, error) {
	m, err := NewMatcher(pattern)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if m.Match(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// WithRole returns the users holding role, keeping their order.
func WithRole(users []User, role Role) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}
