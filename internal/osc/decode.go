package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Decode parses one OSC 1.0 datagram into a message. A missing type tag
// string is accepted as a zero-argument message, matching older senders.
func Decode(data []byte) (Message, error) {
	address, rest, err := readPaddedString(data)
	if err != nil {
		return Message{}, fmt.Errorf("read address: %w", err)
	}
	if err := validAddress(address); err != nil {
		return Message{}, err
	}

	if len(rest) == 0 {
		return Message{Address: address}, nil
	}

	tags, rest, err := readPaddedString(rest)
	if err != nil {
		return Message{}, fmt.Errorf("read type tags: %w", err)
	}
	if !strings.HasPrefix(tags, ",") {
		return Message{}, fmt.Errorf("type tag string %q must start with ','", tags)
	}

	args := make([]any, 0, len(tags)-1)
	for _, tag := range tags[1:] {
		switch tag {
		case 'f':
			if len(rest) < 4 {
				return Message{}, fmt.Errorf("truncated float32 argument")
			}
			args = append(args, math.Float32frombits(binary.BigEndian.Uint32(rest[:4])))
			rest = rest[4:]
		case 'i':
			if len(rest) < 4 {
				return Message{}, fmt.Errorf("truncated int32 argument")
			}
			args = append(args, int32(binary.BigEndian.Uint32(rest[:4])))
			rest = rest[4:]
		case 's':
			var s string
			s, rest, err = readPaddedString(rest)
			if err != nil {
				return Message{}, fmt.Errorf("read string argument: %w", err)
			}
			args = append(args, s)
		default:
			return Message{}, fmt.Errorf("unsupported type tag %q", tag)
		}
	}

	return Message{Address: address, Args: args}, nil
}

// readPaddedString consumes one NUL-terminated, 4-byte-aligned string.
func readPaddedString(data []byte) (string, []byte, error) {
	end := bytes.IndexByte(data, 0)
	if end < 0 {
		return "", nil, fmt.Errorf("unterminated string")
	}
	total := paddedLen(end)
	if total > len(data) {
		return "", nil, fmt.Errorf("string padding exceeds datagram")
	}
	return string(data[:end]), data[total:], nil
}
