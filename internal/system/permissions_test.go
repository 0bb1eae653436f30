package system

import (
	"context"
	"testing"
)

func TestIsSystemPath(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/", true},
		{"/usr/local", true},
		{"/var", true},
		{"/home/umbrel/umbrel/repos/x", false},
		{"/srv/apps", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isSystemPath(tt.path); got != tt.expected {
				t.Errorf("isSystemPath(%q) = %v; want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestTakeOwnershipIgnoresEmptyAndSystemPaths(t *testing.T) {
	o := Owner{UID: 1000, GID: 1000}
	// Neither call may run chown; both must return without panicking.
	o.TakeOwnership(context.Background(), "")
	o.TakeOwnership(context.Background(), "/")
}
