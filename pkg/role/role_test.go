package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtLeast(t *testing.T) {
	for _, caller := range RoleValues() {
		for _, required := range RoleValues() {
			assert.Equal(t, int(caller) >= int(required), caller.AtLeast(required),
				"caller=%s required=%s", caller, required)
		}
	}
}

func TestOrdering(t *testing.T) {
	assert.Less(t, int(Guest), int(Normal))
	assert.Less(t, int(Normal), int(VIP))
	assert.Less(t, int(VIP), int(Admin))
	assert.Less(t, int(Admin), int(SuperAdmin))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		role     Role
		expected string
	}{
		{Guest, "Guest"},
		{Normal, "Normal User"},
		{VIP, "VIP User"},
		{Admin, "Administrator"},
		{SuperAdmin, "Super Administrator"},
		{Role(42), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.DisplayName())
		})
	}
}

func TestRoleString(t *testing.T) {
	r, err := RoleString("admin")
	require.NoError(t, err)
	assert.Equal(t, Admin, r)

	r, err = RoleString("SuperAdmin")
	require.NoError(t, err)
	assert.Equal(t, SuperAdmin, r)

	_, err = RoleString("root")
	assert.Error(t, err)

	assert.Equal(t, "vip", VIP.String())
	assert.Equal(t, "Role(9)", Role(9).String())
	assert.False(t, Role(-1).IsARole())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", Admin},
		{" VIP ", VIP},
		{"superadmin", SuperAdmin},
		{"0", Guest},
		{"4", SuperAdmin},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"5", "-1", "owner", ""} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}
