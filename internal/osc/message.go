// Package osc implements the subset of OSC 1.0 spoken by the UE5 bridge:
// one message per UDP datagram, float32/int32/string arguments, no bundles.
package osc

import (
	"fmt"
	"strings"
)

// Message is one decoded OSC message: an address path plus typed arguments.
type Message struct {
	Address string
	Args    []any
}

// NewMessage builds a message for the given address and arguments.
// Supported argument types are float32, int32, and string.
func NewMessage(address string, args ...any) Message {
	return Message{Address: address, Args: args}
}

// Float returns argument i as a float32.
func (m Message) Float(i int) (float32, error) {
	if i < 0 || i >= len(m.Args) {
		return 0, fmt.Errorf("argument %d out of range (have %d)", i, len(m.Args))
	}
	f, ok := m.Args[i].(float32)
	if !ok {
		return 0, fmt.Errorf("argument %d is %T, not float32", i, m.Args[i])
	}
	return f, nil
}

// String returns argument i as a string.
func (m Message) String(i int) (string, error) {
	if i < 0 || i >= len(m.Args) {
		return "", fmt.Errorf("argument %d out of range (have %d)", i, len(m.Args))
	}
	s, ok := m.Args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d is %T, not string", i, m.Args[i])
	}
	return s, nil
}

// Floats returns all arguments as float32 values, failing on any other type.
func (m Message) Floats() ([]float32, error) {
	out := make([]float32, 0, len(m.Args))
	for i := range m.Args {
		f, err := m.Float(i)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// validAddress enforces the OSC address form used by the bridge.
func validAddress(address string) error {
	if !strings.HasPrefix(address, "/") {
		return fmt.Errorf("address %q must start with '/'", address)
	}
	if strings.ContainsRune(address, 0) {
		return fmt.Errorf("address %q contains NUL", address)
	}
	return nil
}
