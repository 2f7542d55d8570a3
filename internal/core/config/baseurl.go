package config

import (
	"fmt"
	"strings"
)

// DefaultAPIPort is the backend API port assumed when a discovered dev host
// carries no port of its own.
const DefaultAPIPort = 8000

// Environment describes everything base-URL resolution depends on. Resolution
// is a pure function of this descriptor, so it is deterministic for a given
// environment and testable without any platform runtime.
type Environment struct {
	// OverrideURL is an explicit base URL; it wins unconditionally.
	OverrideURL string
	// DevHost is a discovered development-host address, "host" or "host:port".
	DevHost string
	// Platform names the runtime platform the agent fronts for.
	Platform string
}

// ResolveBaseURL resolves the API base URL in priority order: explicit
// override, discovered dev host, platform default. Called once per process;
// never retried.
func ResolveBaseURL(env Environment) string {
	if env.OverrideURL != "" {
		return strings.TrimRight(env.OverrideURL, "/")
	}

	if env.DevHost != "" {
		host := env.DevHost
		if !strings.Contains(host, ":") {
			host = fmt.Sprintf("%s:%d", host, DefaultAPIPort)
		}
		return "http://" + host
	}

	switch env.Platform {
	case "android":
		// Android emulators reach the host loopback via 10.0.2.2.
		return fmt.Sprintf("http://10.0.2.2:%d", DefaultAPIPort)
	default:
		return fmt.Sprintf("http://localhost:%d", DefaultAPIPort)
	}
}
