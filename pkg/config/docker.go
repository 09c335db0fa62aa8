package config

import (
	"os"
	"sync"
)

// DockerHostAlias reaches the host machine from inside a container.
const DockerHostAlias = "host.docker.internal"

var (
	dockerOnce sync.Once
	inDocker   bool
)

// IsRunningInDocker reports whether /.dockerenv exists. Cached after the first call.
func IsRunningInDocker() bool {
	dockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		inDocker = err == nil
	})
	return inDocker
}

// ResolveHostForDocker rewrites a loopback datastore host to DockerHostAlias
// when the bot itself runs in a container, so a DB_HOST=localhost config
// written for the host keeps working under docker run.
func ResolveHostForDocker(host string) string {
	return resolveHost(host, IsRunningInDocker())
}

func resolveHost(host string, containerized bool) string {
	if !containerized {
		return host
	}
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return DockerHostAlias
	}
	return host
}
