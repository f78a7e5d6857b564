package tap

import (
	"os"
	"os/user"
	"sync"
)

var hostname = sync.OnceValue(func() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
})

var environmentUser = sync.OnceValue(func() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
})

// HostEnricher adds the machine name to every record.
func HostEnricher() Enricher {
	return func(props map[string]any, _ *RequestContext) {
		if name := hostname(); name != "" {
			props["machineName"] = name
		}
	}
}

// UserEnricher adds the process owner's username to every record.
func UserEnricher() Enricher {
	return func(props map[string]any, _ *RequestContext) {
		if name := environmentUser(); name != "" {
			props["environmentUser"] = name
		}
	}
}

// RemoteAddrEnricher adds the raw socket address of the client connection.
func RemoteAddrEnricher() Enricher {
	return func(props map[string]any, rc *RequestContext) {
		props["remoteAddr"] = rc.Request.RemoteAddr
	}
}
