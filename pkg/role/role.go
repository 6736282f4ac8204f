package role

import (
	"fmt"
	"strconv"
	"strings"
)

//go:generate go tool enumer -type Role -transform lower -output role_enumer.go

// Role is a user's level in the hierarchy.
type Role int

const (
	Guest Role = iota
	Normal
	VIP
	Admin
	SuperAdmin
)

var displayNames = map[Role]string{
	Guest:      "Guest",
	Normal:     "Normal User",
	VIP:        "VIP User",
	Admin:      "Administrator",
	SuperAdmin: "Super Administrator",
}

// AtLeast reports whether r meets or exceeds required.
func (r Role) AtLeast(required Role) bool {
	return r >= required
}

// DisplayName returns the human readable name shown in user profiles and
// permission errors.
func (r Role) DisplayName() string {
	if name, ok := displayNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Parse accepts a role name or its level number, e.g. "admin" or "3".
func Parse(raw string) (Role, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(raw); err == nil {
		r := Role(n)
		if !r.IsARole() {
			return 0, fmt.Errorf("unknown role level %d", n)
		}
		return r, nil
	}

	r, err := RoleString(raw)
	if err != nil {
		return 0, fmt.Errorf("unknown role %q, expected one of %s", raw, strings.Join(RoleStrings(), ", "))
	}
	return r, nil
}
