package network

import (
	"fmt"
)

// Type is the network a node runs on. Every network has its own set of
// default ports.
type Type int

const (
	Mainnet Type = iota
	Testnet
	Simnet
	Devnet
)

type ports struct {
	p2p       uint16
	grpc      uint16
	wrpcBorsh uint16
	wrpcJSON  uint16
}

var (
	names = [...]string{
		Mainnet: "mainnet",
		Testnet: "testnet",
		Simnet:  "simnet",
		Devnet:  "devnet",
	}

	defaultPorts = [...]ports{
		Mainnet: {p2p: 16111, grpc: 16110, wrpcBorsh: 17110, wrpcJSON: 18110},
		Testnet: {p2p: 16211, grpc: 16210, wrpcBorsh: 17210, wrpcJSON: 18210},
		Simnet:  {p2p: 16511, grpc: 16510, wrpcBorsh: 17510, wrpcJSON: 18510},
		Devnet:  {p2p: 16611, grpc: 16610, wrpcBorsh: 17610, wrpcJSON: 18610},
	}
)

// Types returns all the known network types
func Types() []Type {
	return []Type{Mainnet, Testnet, Simnet, Devnet}
}

// ParseType parses the lowercase network name. The match is exact.
func ParseType(s string) (Type, error) {
	for t, name := range names {
		if name == s {
			return Type(t), nil
		}
	}

	return 0, fmt.Errorf("unknown network type '%s'", s)
}

func (t Type) valid() bool {
	return t >= 0 && int(t) < len(names)
}

func (t Type) String() string {
	if !t.valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}

	return names[t]
}

// MarshalText marshals into text
func (t Type) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("unknown network type %d", int(t))
	}

	return []byte(names[t]), nil
}

// UnmarshalText unmarshals from text
func (t *Type) UnmarshalText(input []byte) error {
	parsed, err := ParseType(string(input))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Type) ports() ports {
	if !t.valid() {
		panic(fmt.Sprintf("network: no default ports for %s", t))
	}

	return defaultPorts[t]
}

func (t Type) DefaultP2PPort() uint16 {
	return t.ports().p2p
}

// DefaultRPCPort is the default gRPC port
func (t Type) DefaultRPCPort() uint16 {
	return t.ports().grpc
}

func (t Type) DefaultBorshRPCPort() uint16 {
	return t.ports().wrpcBorsh
}

func (t Type) DefaultJSONRPCPort() uint16 {
	return t.ports().wrpcJSON
}
