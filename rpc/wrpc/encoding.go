package wrpc

import (
	"fmt"

	"github.com/wrpcd/wrpcd/network"
)

// Encoding is the message encoding spoken by a wRPC listener
type Encoding int

const (
	Borsh Encoding = iota
	SerdeJSON
)

// Encodings returns all the supported encodings
func Encodings() []Encoding {
	return []Encoding{Borsh, SerdeJSON}
}

// ParseEncoding parses "borsh" or "json"
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "borsh":
		return Borsh, nil
	case "json":
		return SerdeJSON, nil
	default:
		return 0, fmt.Errorf("unknown wrpc encoding '%s'", s)
	}
}

func (e Encoding) String() string {
	switch e {
	case Borsh:
		return "borsh"
	case SerdeJSON:
		return "json"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// MarshalText marshals into text
func (e Encoding) MarshalText() ([]byte, error) {
	switch e {
	case Borsh, SerdeJSON:
		return []byte(e.String()), nil
	default:
		return nil, fmt.Errorf("unknown wrpc encoding %d", int(e))
	}
}

// UnmarshalText unmarshals from text
func (e *Encoding) UnmarshalText(input []byte) error {
	parsed, err := ParseEncoding(string(input))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// DefaultPort returns the conventional wRPC port for the encoding on the given network
func (e Encoding) DefaultPort(networkType network.Type) uint16 {
	switch e {
	case Borsh:
		return networkType.DefaultBorshRPCPort()
	case SerdeJSON:
		return networkType.DefaultJSONRPCPort()
	default:
		panic(fmt.Sprintf("wrpc: no default port for %s", e))
	}
}
