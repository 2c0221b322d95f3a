package netutil

import "net"

// NormalizeIP collapses an IPv4-mapped IPv6 address (e.g. "::ffff:192.0.2.1")
// to its 4-byte IPv4 representation. Any other address, including real IPv6
// addresses and nil, is returned unchanged.
//
// Dual-stack listeners commonly report IPv4 peers in the mapped form; callers
// that compare, log, or hand addresses to policy code want the canonical IPv4
// form instead. Normalization is intended to run once, when an address enters
// the system, not on every access.
func NormalizeIP(ip net.IP) net.IP {
	if ip == nil {
		return nil
	}
	if v4 := ip.To4(); v4 != nil && len(ip) == net.IPv6len {
		return v4
	}
	return ip
}

// NormalizeTCPAddr returns a copy of addr with its IP normalized via
// NormalizeIP. The original address is not modified. A nil addr is returned
// as-is.
func NormalizeTCPAddr(addr *net.TCPAddr) *net.TCPAddr {
	if addr == nil {
		return nil
	}
	normalized := *addr
	normalized.IP = NormalizeIP(addr.IP)
	return &normalized
}

// NormalizeAddr normalizes the IP component of addr when it is a *net.TCPAddr
// or *net.UDPAddr. Other net.Addr implementations (unix sockets, test fakes)
// carry no IP to normalize and pass through untouched.
func NormalizeAddr(addr net.Addr) net.Addr {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return NormalizeTCPAddr(a)
	case *net.UDPAddr:
		if a == nil {
			return a
		}
		normalized := *a
		normalized.IP = NormalizeIP(a.IP)
		return &normalized
	default:
		return addr
	}
}
