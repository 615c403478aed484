package osc

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode serializes a message into one OSC 1.0 datagram: padded address,
// padded type tag string, then big-endian arguments on 4-byte boundaries.
func Encode(m Message) ([]byte, error) {
	if err := validAddress(m.Address); err != nil {
		return nil, err
	}

	tags := make([]byte, 0, len(m.Args)+1)
	tags = append(tags, ',')
	argSize := 0
	for i, arg := range m.Args {
		switch v := arg.(type) {
		case float32:
			tags = append(tags, 'f')
			argSize += 4
		case int32:
			tags = append(tags, 'i')
			argSize += 4
		case string:
			tags = append(tags, 's')
			argSize += paddedLen(len(v))
		default:
			return nil, fmt.Errorf("argument %d: unsupported type %T", i, v)
		}
	}

	buf := make([]byte, 0, paddedLen(len(m.Address))+paddedLen(len(tags))+argSize)
	buf = appendPaddedString(buf, m.Address)
	buf = appendPaddedString(buf, string(tags))
	for _, arg := range m.Args {
		switch v := arg.(type) {
		case float32:
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(v))
		case int32:
			buf = binary.BigEndian.AppendUint32(buf, uint32(v))
		case string:
			buf = appendPaddedString(buf, v)
		}
	}
	return buf, nil
}

// paddedLen returns the encoded size of an n-byte string: at least one NUL
// terminator, rounded up to a 4-byte boundary.
func paddedLen(n int) int {
	return (n + 4) &^ 3
}

// appendPaddedString appends s plus its NUL padding to buf.
func appendPaddedString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	for i := paddedLen(len(s)) - len(s); i > 0; i-- {
		buf = append(buf, 0)
	}
	return buf
}
