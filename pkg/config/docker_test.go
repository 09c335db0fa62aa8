package config

import "testing"

func TestResolveHost(t *testing.T) {
	tests := []struct {
		host          string
		containerized bool
		want          string
	}{
		{"localhost", false, "localhost"},
		{"127.0.0.1", false, "127.0.0.1"},
		{"localhost", true, DockerHostAlias},
		{"127.0.0.1", true, DockerHostAlias},
		{"::1", true, DockerHostAlias},
		{"events-db.internal", true, "events-db.internal"},
		{"192.168.1.100", true, "192.168.1.100"},
		{"", true, ""},
	}

	for _, tt := range tests {
		if got := resolveHost(tt.host, tt.containerized); got != tt.want {
			t.Errorf("resolveHost(%q, %v) = %q, want %q", tt.host, tt.containerized, got, tt.want)
		}
	}
}

func TestResolveHostForDocker_RemoteHostUnchanged(t *testing.T) {
	// Holds whether or not the test itself runs in a container.
	if got := ResolveHostForDocker("mydb.example.com"); got != "mydb.example.com" {
		t.Errorf("ResolveHostForDocker changed a remote host to %q", got)
	}
}
