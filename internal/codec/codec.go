// Package codec implements the binary framing used by the vault log file:
// a length-prefixed header and a varint-prefixed string encoding for entry
// plaintext. It intentionally hand-rolls a small, fixed encoding rather than
// pulling in a general-purpose serialization library, since the on-disk
// layout is normative and narrow (one struct, three strings) and no
// self-describing binary codec in this codebase's dependency graph produces
// the exact field order required.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

var (
	ErrTruncated  = errors.New("codec: truncated input")
	ErrTrailing   = errors.New("codec: trailing bytes after value")
	ErrVarintSize = errors.New("codec: varint overflow")
)

// ArgonParams carries the Argon2id cost parameters stored in the header.
type ArgonParams struct {
	MemKiB      uint32
	Iterations  uint32
	Parallelism uint32
}

// Magic is the fixed 5-byte header preamble.
var Magic = [5]byte{'S', 'V', 'L', 'T', '1'}

// Version is the only header version this codec understands.
const Version uint16 = 1

// Header is the decoded form of the on-disk VaultHeader.
type Header struct {
	Magic      [5]byte
	Version    uint16
	Argon      ArgonParams
	SaltKEK    [32]byte
	WrappedDEK []byte // nonce_12 || ciphertext_and_tag(48) = 60 bytes
}

// EncodeHeader serializes h in the field order mandated by the file format:
// magic, version, mem_kib, iterations, parallelism, salt_kek, then the
// wrapped DEK prefixed by its varint length.
func EncodeHeader(h Header) []byte {
	var buf bytes.Buffer
	buf.Write(h.Magic[:])
	writeU16(&buf, h.Version)
	writeU32(&buf, h.Argon.MemKiB)
	writeU32(&buf, h.Argon.Iterations)
	writeU32(&buf, h.Argon.Parallelism)
	buf.Write(h.SaltKEK[:])
	writeVarint(&buf, uint64(len(h.WrappedDEK)))
	buf.Write(h.WrappedDEK)
	return buf.Bytes()
}

// DecodeHeader parses a header previously produced by EncodeHeader. It does
// not validate magic/version; callers check those themselves so they can
// distinguish "garbage" from "wrong version" if desired.
func DecodeHeader(b []byte) (Header, error) {
	r := bytes.NewReader(b)
	var h Header

	if _, err := io.ReadFull(r, h.Magic[:]); err != nil {
		return Header{}, ErrTruncated
	}

	var err error
	if h.Version, err = readU16(r); err != nil {
		return Header{}, err
	}
	if h.Argon.MemKiB, err = readU32(r); err != nil {
		return Header{}, err
	}
	if h.Argon.Iterations, err = readU32(r); err != nil {
		return Header{}, err
	}
	if h.Argon.Parallelism, err = readU32(r); err != nil {
		return Header{}, err
	}
	if _, err := io.ReadFull(r, h.SaltKEK[:]); err != nil {
		return Header{}, ErrTruncated
	}

	wrappedLen, err := readVarint(r)
	if err != nil {
		return Header{}, err
	}
	wrapped := make([]byte, wrappedLen)
	if _, err := io.ReadFull(r, wrapped); err != nil {
		return Header{}, ErrTruncated
	}
	h.WrappedDEK = wrapped

	if r.Len() != 0 {
		return Header{}, ErrTrailing
	}

	return h, nil
}

// Entry is the decoded plaintext of a log record.
type Entry struct {
	ID       [16]byte
	Title    string
	Username string
	Password string
}

// IsTombstone reports whether e's three logical fields are all empty, the
// on-disk marker for a logical deletion.
func (e Entry) IsTombstone() bool {
	return e.Title == "" && e.Username == "" && e.Password == ""
}

// EncodeEntry serializes e as id_16 followed by three varint-length-prefixed
// UTF-8 strings, in title, username, password order.
func EncodeEntry(e Entry) []byte {
	var buf bytes.Buffer
	buf.Write(e.ID[:])
	writeString(&buf, e.Title)
	writeString(&buf, e.Username)
	writeString(&buf, e.Password)
	return buf.Bytes()
}

// DecodeEntry parses plaintext produced by EncodeEntry.
func DecodeEntry(b []byte) (Entry, error) {
	r := bytes.NewReader(b)
	var e Entry

	if _, err := io.ReadFull(r, e.ID[:]); err != nil {
		return Entry{}, ErrTruncated
	}

	var err error
	if e.Title, err = readString(r); err != nil {
		return Entry{}, err
	}
	if e.Username, err = readString(r); err != nil {
		return Entry{}, err
	}
	if e.Password, err = readString(r); err != nil {
		return Entry{}, err
	}

	if r.Len() != 0 {
		return Entry{}, ErrTrailing
	}

	return e, nil
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func readU16(r *bytes.Reader) (uint16, error) {
	var tmp [2]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.LittleEndian.Uint16(tmp[:]), nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}

// writeVarint encodes v as an unsigned LEB128 varint.
func writeVarint(buf *bytes.Buffer, v uint64) {
	for v >= 0x80 {
		buf.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	buf.WriteByte(byte(v))
}

func readVarint(r *bytes.Reader) (uint64, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		if err == io.EOF {
			return 0, ErrTruncated
		}
		return 0, ErrVarintSize
	}
	return v, nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeVarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readVarint(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", ErrTruncated
	}
	return string(b), nil
}
