// Package clientip extracts the originating client IP from an HTTP request,
// taking common proxy headers into account. Session tokens may carry an IP
// binding; this package supplies the observed address the binding is
// compared against.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the client's IP address from an HTTP request.
// Priority order:
//  1. X-Forwarded-For (first valid IP in the chain)
//  2. X-Real-IP (reverse proxy)
//  3. RemoteAddr (direct connection fallback)
func GetIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for ip := range strings.SplitSeq(forwarded, ",") {
			if parsed := parseIP(strings.TrimSpace(ip)); parsed != "" {
				return parsed
			}
		}
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if parsed := parseIP(ip); parsed != "" {
			return parsed
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr may already be a bare IP.
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
// Returns the empty string if the IP is invalid.
func parseIP(ipStr string) string {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	return ip.String()
}
