// Package vaultlog implements the append-only vault file: header creation,
// per-record authenticated append, and log replay with last-write-wins
// reconciliation. It owns no long-lived file handle or decrypted key; every
// call opens the file, does its work, and closes it.
package vaultlog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/arimxyer/svlt/internal/codec"
	svcrypto "github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/vaulterr"
)

const (
	// minRecordLen is id(16) + nonce(12) + minimum GCM tag(16) with a
	// zero-length plaintext.
	minRecordLen = 16 + 12 + 16

	filePerm = 0o600
)

var ErrAlreadyExists = errors.New("vault: file already exists")

// Store is a handle bound to a vault file path and its decoded header. It
// is cheap to construct and holds no open file descriptor between calls.
type Store struct {
	Path   string
	Header codec.Header
}

// Create writes a brand-new vault file at path with the given header. It
// fails if the path already exists (exclusive create), matching the
// single-writer, no-overwrite discipline of the format.
func Create(path string, header codec.Header) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if os.IsExist(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("vault: create %s: %w", path, err)
	}
	defer f.Close()

	encoded := codec.EncodeHeader(header)

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(encoded)))

	if _, err := f.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("vault: write header length: %w", err)
	}
	if _, err := f.Write(encoded); err != nil {
		return fmt.Errorf("vault: write header: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("vault: sync header: %w", err)
	}

	return nil
}

// Open reads and validates the header at path, returning a Store bound to
// it. It does not read any records.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vault: open %s: %w", path, err)
	}
	defer f.Close()

	var lenBuf [4]byte
	if _, err := io.ReadFull(f, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", vaulterr.ErrInvalidHeader, err)
	}
	headerLen := binary.LittleEndian.Uint32(lenBuf[:])

	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(f, headerBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", vaulterr.ErrInvalidHeader, err)
	}

	header, err := codec.DecodeHeader(headerBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vaulterr.ErrInvalidHeader, err)
	}
	if header.Magic != codec.Magic || header.Version != codec.Version {
		return nil, vaulterr.ErrInvalidHeader
	}

	return &Store{Path: path, Header: header}, nil
}

// headerSize returns the number of bytes from the start of the file to the
// first record: the 4-byte length prefix plus the encoded header.
func (s *Store) headerSize() int64 {
	return 4 + int64(len(codec.EncodeHeader(s.Header)))
}

// WriteEntry derives the entry's item key from dek, seals the encoded entry
// with AAD bound to the entry's id, and appends the framed record.
func (s *Store) WriteEntry(dek []byte, entry codec.Entry) error {
	itemKey, err := svcrypto.DeriveItemKey(dek, entry.ID[:])
	if err != nil {
		return err
	}
	defer svcrypto.ClearBytes(itemKey)

	plaintext := codec.EncodeEntry(entry)

	c := svcrypto.NewCryptoService()
	sealed, err := c.EncryptWithAAD(plaintext, itemKey, entry.ID[:])
	if err != nil {
		return err
	}
	// sealed is nonce_12 || ciphertext_and_tag
	nonce, ciphertext := sealed[:12], sealed[12:]

	recordLen := uint32(16 + 12 + len(ciphertext))

	f, err := os.OpenFile(s.Path, os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return fmt.Errorf("vault: open for append %s: %w", s.Path, err)
	}
	defer f.Close()

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], recordLen)

	if _, err := f.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("vault: write record length: %w", err)
	}
	if _, err := f.Write(entry.ID[:]); err != nil {
		return fmt.Errorf("vault: write record id: %w", err)
	}
	if _, err := f.Write(nonce); err != nil {
		return fmt.Errorf("vault: write record nonce: %w", err)
	}
	if _, err := f.Write(ciphertext); err != nil {
		return fmt.Errorf("vault: write record ciphertext: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("vault: sync record: %w", err)
	}

	return nil
}

// ReadAllEntries replays the log in append order. A trailing record too
// short to contain id+nonce+tag, or a short read at the tail, ends replay
// cleanly with no error. An authentication or decode failure on any fully
// read record, the last one included, is reported as vaulterr.ErrCorruptLog.
func (s *Store) ReadAllEntries(dek []byte) ([]codec.Entry, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("vault: open %s: %w", s.Path, err)
	}
	defer f.Close()

	if _, err := f.Seek(s.headerSize(), io.SeekStart); err != nil {
		return nil, fmt.Errorf("vault: seek past header: %w", err)
	}

	c := svcrypto.NewCryptoService()
	var entries []codec.Entry

	for {
		var lenBuf [4]byte
		n, err := io.ReadFull(f, lenBuf[:])
		if err != nil {
			if n == 0 && (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, fmt.Errorf("vault: read record length: %w", err)
		}
		recordLen := binary.LittleEndian.Uint32(lenBuf[:])

		if recordLen < minRecordLen {
			break
		}

		body := make([]byte, recordLen)
		if _, err := io.ReadFull(f, body); err != nil {
			break
		}

		id := body[:16]
		nonce := body[16:28]
		ciphertext := body[28:]

		itemKey, err := svcrypto.DeriveItemKey(dek, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", vaulterr.ErrCorruptLog, err)
		}

		sealed := append(append([]byte{}, nonce...), ciphertext...)
		plaintext, err := c.DecryptWithAAD(sealed, itemKey, id)
		svcrypto.ClearBytes(itemKey)
		if err != nil {
			return nil, fmt.Errorf("%w: authentication failed on record", vaulterr.ErrCorruptLog)
		}

		entry, err := codec.DecodeEntry(plaintext)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", vaulterr.ErrCorruptLog, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// EntryTitle pairs an id with its title for the raw and active projections.
type EntryTitle struct {
	ID    uuid.UUID
	Title string
}

// ListEntries returns the raw append-order projection: every record's
// (id, title), duplicates and tombstones included.
func (s *Store) ListEntries(dek []byte) ([]EntryTitle, error) {
	entries, err := s.ReadAllEntries(dek)
	if err != nil {
		return nil, err
	}
	out := make([]EntryTitle, len(entries))
	for i, e := range entries {
		out[i] = EntryTitle{ID: e.ID, Title: e.Title}
	}
	return out, nil
}

// GetEntry replays the log and returns the last record with the given id,
// or vaulterr.ErrNotFound if no record with that id exists at all. A
// tombstone's last record is still returned (with empty fields); the
// vaultlog package keeps the raw internal contract recommended for library
// callers, while the CLI boundary maps tombstones to NotFound itself.
func (s *Store) GetEntry(dek []byte, id uuid.UUID) (codec.Entry, error) {
	entries, err := s.ReadAllEntries(dek)
	if err != nil {
		return codec.Entry{}, err
	}

	found := false
	var last codec.Entry
	for _, e := range entries {
		if uuid.UUID(e.ID) == id {
			last = e
			found = true
		}
	}
	if !found {
		return codec.Entry{}, vaulterr.ErrNotFound
	}
	return last, nil
}

// UpdateEntry appends a new record under the same id, superseding prior
// versions on replay.
func (s *Store) UpdateEntry(dek []byte, entry codec.Entry) error {
	return s.WriteEntry(dek, entry)
}

// DeleteEntry appends a tombstone record for id.
func (s *Store) DeleteEntry(dek []byte, id uuid.UUID) error {
	tombstone := codec.Entry{ID: id}
	return s.WriteEntry(dek, tombstone)
}

// ListActiveEntries replays the log and returns the last-write-wins active
// set: a tombstone removes its id, any other record inserts or overwrites
// it. Order is not meaningful; callers sort if they need stable output.
func (s *Store) ListActiveEntries(dek []byte) ([]EntryTitle, error) {
	entries, err := s.ReadAllEntries(dek)
	if err != nil {
		return nil, err
	}

	active := make(map[uuid.UUID]string)
	for _, e := range entries {
		id := uuid.UUID(e.ID)
		if e.IsTombstone() {
			delete(active, id)
			continue
		}
		active[id] = e.Title
	}

	out := make([]EntryTitle, 0, len(active))
	for id, title := range active {
		out = append(out, EntryTitle{ID: id, Title: title})
	}
	return out, nil
}

// NewEntryID generates a fresh UUIDv4 for a new entry.
func NewEntryID() uuid.UUID {
	return uuid.New()
}
