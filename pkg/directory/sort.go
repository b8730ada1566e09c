package directory

import (
	"sort"
	"strings"
)

// SortUsers orders users in place by role, then last name, then first name.
// Names compare case-insensitively; equal keys keep their input order.
func SortUsers(users []User) {
	sort.SliceStable(users, func(i, j int) bool {
		return compareUsers(users[i], users[j]) < 0
	})
}

// Sorted returns a sorted copy and leaves the input untouched.
func Sorted(users []User) []User {
	out := make([]User, len(users))
	copy(out, users)
	SortUsers(out)
	return out
}

func compareUsers(a, b User) int {
	if a.Role != b.Role {
		if a.Role < b.Role {
			return -1
		}
		return 1
	}
	if c := compareFold(a.LastName, b.LastName); c != 0 {
		return c
	}
	return compareFold(a.FirstName, b.FirstName)
}

// compareFold is an ordinal comparison after upper-casing both sides.
func compareFold(a, b string) int {
	return strings.Compare(strings.ToUpper(a), strings.ToUpper(b))
}
