package entity

import "time"

// ProxyCache is the process-wide, read-mostly list of validated outbound
// proxies maintained by the Proxy Service (§4.1). Refresh writes replace the
// slice atomically; readers take an immutable snapshot and never mutate it.
type ProxyCache struct {
	Proxies   []string
	UpdatedAt time.Time
}

// Snapshot returns a defensive copy of the proxy list, safe to hand to
// concurrent callers without further synchronization.
func (c ProxyCache) Snapshot() []string {
	out := make([]string, len(c.Proxies))
	copy(out, c.Proxies)
	return out
}
