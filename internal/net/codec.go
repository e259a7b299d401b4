package net

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameLen bounds a single frame (header included). Item-economy
// packets are tiny; anything near the limit is a broken or hostile peer.
const maxFrameLen = 4096

// ReadFrame reads one packet frame from r.
// Wire format: [2 bytes LE: total length including header][payload].
// Returns the payload bytes without the 2-byte length header.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	totalLen := int(binary.LittleEndian.Uint16(header[:]))
	if totalLen <= 2 || totalLen > maxFrameLen {
		return nil, fmt.Errorf("invalid frame length: %d", totalLen)
	}

	payload := make([]byte, totalLen-2)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", len(payload), err)
	}
	return payload, nil
}

// WriteFrame writes one packet frame to w.
// Header and payload go out in a single Write call so a tiny header is
// never split from its payload by Nagle.
func WriteFrame(w io.Writer, data []byte) error {
	totalLen := len(data) + 2
	if totalLen > maxFrameLen {
		return fmt.Errorf("frame too large: %d", totalLen)
	}
	frame := make([]byte, totalLen)
	binary.LittleEndian.PutUint16(frame[0:2], uint16(totalLen))
	copy(frame[2:], data)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
