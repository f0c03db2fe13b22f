package httputil

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// refusedAddrError reports a dial to an address [PublicTransport] refuses.
type refusedAddrError struct{ addr string }

func (e *refusedAddrError) Error() string {
	return fmt.Sprintf("refusing to connect to non-public address %s", e.addr)
}

func isRefused(err error) bool {
	return errors.As(err, new(*refusedAddrError))
}

// IsPublic reports whether addr is a globally routable unicast address.
// Loopback, private, link-local, multicast, unspecified and shared
// (CGNAT) addresses are not public.
func IsPublic(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsUnspecified(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast(),
		sharedAddressSpace.Contains(addr):
		return false
	}
	return true
}

// PublicTransport returns a transport that only connects to public
// addresses. The check runs on the resolved address of every dial, so host
// names and redirects cannot reach internal services. Proxies are not used.
func PublicTransport() *http.Transport {
	d := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   refuseNonPublic,
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = nil
	t.DialContext = d.DialContext
	return t
}

func refuseNonPublic(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil || !IsPublic(ap.Addr()) {
		return &refusedAddrError{addr: address}
	}
	return nil
}
