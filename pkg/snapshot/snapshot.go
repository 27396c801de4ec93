// Package snapshot persists detection results as compact binary records:
// a fixed header followed by snappy-compressed JSON.
//
// Layout (big endian):
//
//	magic    [4]byte "CPSN"
//	version  uint16
//	length   uint32  compressed payload length
//	checksum uint32  CRC32 (IEEE) of the compressed payload
//	payload  []byte
package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-coreperiphery/pkg/detector"
)

// Version is the current record format.
const Version uint16 = 1

// MaxPayload bounds the compressed payload accepted by Read, and
// MaxDecoded the payload once decompressed.
const (
	MaxPayload = 1 << 30
	MaxDecoded = 1 << 30
)

// readChunk is the initial buffer for a payload. The buffer grows with the
// bytes actually read, never with the length the header claims.
const readChunk = 64 << 10

var magic = [4]byte{'C', 'P', 'S', 'N'}

var (
	ErrBadMagic           = errors.New("snapshot: bad magic")
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	ErrChecksumMismatch   = errors.New("snapshot: checksum mismatch")
	ErrTooLarge           = errors.New("snapshot: payload too large")
)

type header struct {
	Magic    [4]byte
	Version  uint16
	Length   uint32
	Checksum uint32
}

// Write encodes r to w.
func Write(w io.Writer, r *detector.Result) error {
	if r == nil {
		return errors.New("snapshot: nil result")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	h := header{
		Magic:    magic,
		Version:  Version,
		Length:   uint32(len(compressed)),
		Checksum: crc32.ChecksumIEEE(compressed),
	}
	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("snapshot: write payload: %w", err)
	}
	return nil
}

// Read decodes one record from r.
func Read(r io.Reader) (*detector.Result, error) {
	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("snapshot: read header: %w", err)
	}
	if h.Magic != magic {
		return nil, ErrBadMagic
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.Length > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, h.Length)
	}

	var buf bytes.Buffer
	buf.Grow(min(int(h.Length), readChunk))
	n, err := io.Copy(&buf, io.LimitReader(r, int64(h.Length)))
	if err != nil {
		return nil, fmt.Errorf("snapshot: read payload: %w", err)
	}
	if n < int64(h.Length) {
		return nil, fmt.Errorf("snapshot: read payload: %d of %d bytes: %w", n, h.Length, io.ErrUnexpectedEOF)
	}
	compressed := buf.Bytes()
	if crc32.ChecksumIEEE(compressed) != h.Checksum {
		return nil, ErrChecksumMismatch
	}

	if size, err := snappy.DecodedLen(compressed); err != nil {
		return nil, fmt.Errorf("snapshot: decompress: %w", err)
	} else if size > MaxDecoded {
		return nil, fmt.Errorf("%w: %d bytes decoded", ErrTooLarge, size)
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress: %w", err)
	}

	res := &detector.Result{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return res, nil
}

// Marshal returns the record for r as a byte slice.
func Marshal(r *detector.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a record produced by Marshal.
func Unmarshal(data []byte) (*detector.Result, error) {
	return Read(bytes.NewReader(data))
}
