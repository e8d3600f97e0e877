package netaddr

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
)

type IPBinding string

const (
	LocalHostBinding     IPBinding = "127.0.0.1"
	AllInterfacesBinding IPBinding = "0.0.0.0"
)

// ErrInvalidAddress is returned (wrapped in a ParseError) when a string is
// neither an IP address nor an IP address with a port
var ErrInvalidAddress = errors.New("invalid IP address syntax")

// ParseError describes a string that could not be parsed as a ContextualNetAddress
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse addr '%s': %s", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ContextualNetAddress is an IP address with an optional port. The missing
// port is filled in later by whoever knows the context (network, service).
type ContextualNetAddress struct {
	ip      netip.Addr
	port    uint16
	hasPort bool
}

// New builds an address from an IP and a port. A nil port leaves the port unset.
func New(ip netip.Addr, port *uint16) ContextualNetAddress {
	if port == nil {
		return ContextualNetAddress{ip: ip}
	}

	return ContextualNetAddress{ip: ip, port: *port, hasPort: true}
}

// Loopback returns the local host address with the given port
func Loopback(port uint16) ContextualNetAddress {
	return MustParse(string(LocalHostBinding)).WithPort(port)
}

// Unspecified returns the all interfaces address with the given port
func Unspecified(port uint16) ContextualNetAddress {
	return MustParse(string(AllInterfacesBinding)).WithPort(port)
}

// Parse parses "ip:port", "[ipv6]:port" or a bare IP address.
// Host names are not accepted.
func Parse(s string) (ContextualNetAddress, error) {
	if addrPort, err := netip.ParseAddrPort(s); err == nil {
		return ContextualNetAddress{ip: addrPort.Addr(), port: addrPort.Port(), hasPort: true}, nil
	}

	ip, err := netip.ParseAddr(s)
	if err != nil {
		return ContextualNetAddress{}, &ParseError{Input: s, Err: ErrInvalidAddress}
	}

	return ContextualNetAddress{ip: ip}, nil
}

// MustParse is like Parse but panics on error
func MustParse(s string) ContextualNetAddress {
	addr, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return addr
}

func (a ContextualNetAddress) IP() netip.Addr {
	return a.ip
}

// Port returns the port and whether it was specified
func (a ContextualNetAddress) Port() (uint16, bool) {
	return a.port, a.hasPort
}

func (a ContextualNetAddress) PortNotSpecified() bool {
	return !a.hasPort
}

// WithPort returns a copy of the address with the port set
func (a ContextualNetAddress) WithPort(port uint16) ContextualNetAddress {
	return ContextualNetAddress{ip: a.ip, port: port, hasPort: true}
}

// TCPAddr converts the address to a *net.TCPAddr. An unset port becomes 0.
func (a ContextualNetAddress) TCPAddr() *net.TCPAddr {
	return net.TCPAddrFromAddrPort(netip.AddrPortFrom(a.ip, a.port))
}

func (a ContextualNetAddress) String() string {
	if !a.hasPort {
		return a.ip.String()
	}

	return netip.AddrPortFrom(a.ip, a.port).String()
}

// MarshalText marshals into text
func (a ContextualNetAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText unmarshals from text
func (a *ContextualNetAddress) UnmarshalText(input []byte) error {
	addr, err := Parse(string(input))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ResolveAddr parses an "ip:port" address. The second param is the ip to
// use if only ":port" is given. The port is required.
func ResolveAddr(address string, defaultIP IPBinding) (ContextualNetAddress, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return ContextualNetAddress{}, &ParseError{Input: address, Err: ErrInvalidAddress}
	}

	if host == "" {
		host = string(defaultIP)
	}

	addr, err := Parse(net.JoinHostPort(host, port))
	if err != nil || addr.PortNotSpecified() {
		return ContextualNetAddress{}, &ParseError{Input: address, Err: ErrInvalidAddress}
	}

	return addr, nil
}
