// Package access holds the request-gating concerns around the policy
// API: IP allow-listing, admin sessions, upload rate limiting, and the
// append-only access log.
package access

import (
	"fmt"
	"net"
	"strings"
)

// Allowlist accepts requests only from configured addresses. An empty
// list allows everything.
type Allowlist struct {
	nets []*net.IPNet
	ips  []net.IP
}

// NewAllowlist parses a mix of plain IPs and CIDR ranges.
func NewAllowlist(entries []string) (*Allowlist, error) {
	al := &Allowlist{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			_, n, err := net.ParseCIDR(e)
			if err != nil {
				return nil, fmt.Errorf("allowlist entry %q: %w", e, err)
			}
			al.nets = append(al.nets, n)
			continue
		}
		ip := net.ParseIP(e)
		if ip == nil {
			return nil, fmt.Errorf("allowlist entry %q: not an IP or CIDR", e)
		}
		al.ips = append(al.ips, ip)
	}
	return al, nil
}

// Empty reports whether no entries were configured.
func (a *Allowlist) Empty() bool {
	return len(a.nets) == 0 && len(a.ips) == 0
}

// Allowed reports whether addr (an IP, optionally with port) may access
// the service.
func (a *Allowlist) Allowed(addr string) bool {
	if a.Empty() {
		return true
	}
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, allowed := range a.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, n := range a.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
