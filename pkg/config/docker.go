package config

import (
	"os"
	"sync"
)

// dockerEnvFile exists in every Docker container.
const dockerEnvFile = "/.dockerenv"

var inDocker = sync.OnceValue(func() bool {
	_, err := os.Stat(dockerEnvFile)
	return err == nil
})

// IsRunningInDocker returns true if the application is running inside a Docker container.
// The result is cached after the first call.
func IsRunningInDocker() bool {
	return inDocker()
}

// ResolveHostForDocker rewrites loopback hosts to host.docker.internal when running
// in Docker, so PostgreSQL and Redis on the host machine stay reachable.
func ResolveHostForDocker(host string) string {
	return resolveHost(host, IsRunningInDocker())
}

func resolveHost(host string, docker bool) string {
	if !docker {
		return host
	}
	switch host {
	case "localhost", "127.0.0.1":
		return "host.docker.internal"
	}
	return host
}
