package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const headerSize = 4

// ErrShortFrame reports a frame whose payload does not match its header.
var ErrShortFrame = errors.New("stream: truncated frame")

// EncodeFrame appends a binary frame to dst: n as a little-endian uint32
// followed by the n*n display bytes.
func EncodeFrame(dst []byte, n int, cells []uint8) ([]byte, error) {
	if n < 1 || len(cells) != n*n {
		return dst, fmt.Errorf("stream: %d cells for n=%d", len(cells), n)
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(n))
	return append(dst, cells...), nil
}

// DecodeFrame splits a frame into its size and cells. The cells alias b.
func DecodeFrame(b []byte) (int, []uint8, error) {
	if len(b) < headerSize {
		return 0, nil, ErrShortFrame
	}
	n := int(binary.LittleEndian.Uint32(b))
	if n < 1 || len(b)-headerSize != n*n {
		return 0, nil, fmt.Errorf("%w: n=%d, %d payload bytes", ErrShortFrame, n, len(b)-headerSize)
	}
	return n, b[headerSize:], nil
}
