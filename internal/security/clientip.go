package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ClientIPResolver works out which address a request came from.
// Forwarding headers are read only when the direct peer is a trusted proxy;
// otherwise any client could pick its own rate-limit key.
type ClientIPResolver struct {
	trusted []*net.IPNet
}

// NewClientIPResolver accepts proxy addresses as CIDRs ("10.0.0.0/8") or
// single IPs. With no proxies, forwarding headers are ignored.
func NewClientIPResolver(proxies []string) (*ClientIPResolver, error) {
	res := &ClientIPResolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", p)
			}
			bits := 8 * net.IPv6len
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 8*net.IPv4len
			}
			res.trusted = append(res.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		res.trusted = append(res.trusted, network)
	}
	return res, nil
}

// ClientIP returns the request's client address. A nil resolver trusts no
// proxy.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	if !c.isTrusted(peer) {
		return peer
	}

	// Walk from the nearest hop back; the first untrusted one is the client
	if forwarded := r.Header.Values("X-Forwarded-For"); len(forwarded) > 0 {
		hops := strings.Split(strings.Join(forwarded, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			if !c.isTrusted(hop) {
				return hop
			}
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(realIP) != nil {
		return realIP
	}
	return peer
}

func (c *ClientIPResolver) isTrusted(addr string) bool {
	if c == nil {
		return false
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range c.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
