package wrpc

import (
	"fmt"

	"github.com/wrpcd/wrpcd/network"
	"github.com/wrpcd/wrpcd/pkg/netaddr"
)

const (
	defaultKeyword = "default"
	publicKeyword  = "public"
)

// NetAddress describes where a wRPC listener should bind. It is one of
// DefaultNetAddress, PublicNetAddress or CustomNetAddress.
type NetAddress interface {
	fmt.Stringer

	isNetAddress()
}

// DefaultNetAddress binds to the loopback interface on the default port
type DefaultNetAddress struct{}

// PublicNetAddress binds to all interfaces on the default port
type PublicNetAddress struct{}

// CustomNetAddress binds to a user supplied address. A missing port is
// replaced with the default one.
type CustomNetAddress struct {
	Address netaddr.ContextualNetAddress
}

func (DefaultNetAddress) isNetAddress() {}
func (PublicNetAddress) isNetAddress() {}
func (CustomNetAddress) isNetAddress() {}

func (DefaultNetAddress) String() string { return defaultKeyword }
func (PublicNetAddress) String() string { return publicKeyword }

func (a CustomNetAddress) String() string {
	return a.Address.String()
}

// ParseNetAddress parses "default", "public" or an IP address with an
// optional port. Keywords are case sensitive. Address parse errors are
// returned as is.
func ParseNetAddress(s string) (NetAddress, error) {
	switch s {
	case defaultKeyword:
		return DefaultNetAddress{}, nil
	case publicKeyword:
		return PublicNetAddress{}, nil
	}

	addr, err := netaddr.Parse(s)
	if err != nil {
		return nil, err
	}

	return CustomNetAddress{Address: addr}, nil
}

// ToAddress resolves the listen address for the network type and encoding
func ToAddress(a NetAddress, networkType network.Type, encoding Encoding) netaddr.ContextualNetAddress {
	port := encoding.DefaultPort(networkType)

	switch a := a.(type) {
	case DefaultNetAddress:
		return netaddr.Loopback(port)
	case PublicNetAddress:
		return netaddr.Unspecified(port)
	case CustomNetAddress:
		if a.Address.PortNotSpecified() {
			return a.Address.WithPort(port)
		}
		return a.Address
	default:
		panic(fmt.Sprintf("wrpc: unexpected net address %T", a))
	}
}

// NetAddressValue holds an optional NetAddress decoded from configuration.
// The zero value is unset.
type NetAddressValue struct {
	NetAddress NetAddress
}

// IsSet reports whether an address was provided
func (v NetAddressValue) IsSet() bool {
	return v.NetAddress != nil
}

func (v NetAddressValue) String() string {
	if v.NetAddress == nil {
		return ""
	}

	return v.NetAddress.String()
}

// MarshalText marshals into text
func (v NetAddressValue) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText unmarshals from text, with the same rules as ParseNetAddress
func (v *NetAddressValue) UnmarshalText(input []byte) error {
	a, err := ParseNetAddress(string(input))
	if err != nil {
		return err
	}
	v.NetAddress = a
	return nil
}
