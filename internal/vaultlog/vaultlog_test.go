package vaultlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arimxyer/svlt/internal/codec"
	svcrypto "github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/vaulterr"
)

func testHeader(t *testing.T) (codec.Header, []byte) {
	t.Helper()
	c := svcrypto.NewCryptoService()
	salt, err := c.GenerateSalt()
	require.NoError(t, err)

	kek, err := c.DeriveKEK([]byte("hunter2"), salt, 8*1024, 1, 1)
	require.NoError(t, err)

	dek, wrapped, err := svcrypto.GenerateAndWrapDEK(kek)
	require.NoError(t, err)

	var saltArr [32]byte
	copy(saltArr[:], salt)

	header := codec.Header{
		Magic:   codec.Magic,
		Version: codec.Version,
		Argon:   codec.ArgonParams{MemKiB: 8 * 1024, Iterations: 1, Parallelism: 1},
		SaltKEK: saltArr,
		WrappedDEK: append(append([]byte{}, wrapped.Nonce...), wrapped.Ciphertext...),
	}
	return header, dek
}

func TestCreateOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")

	header, dek := testHeader(t)
	defer svcrypto.ClearBytes(dek)

	require.NoError(t, Create(path, header))

	store, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, codec.Magic, store.Header.Magic)
	assert.Equal(t, codec.Version, store.Header.Version)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, store.headerSize(), info.Size())
}

func TestCreate_AlreadyExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	header, dek := testHeader(t)
	defer svcrypto.ClearBytes(dek)

	require.NoError(t, Create(path, header))
	err := Create(path, header)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestOpen_InvalidHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.svlt")
	require.NoError(t, os.WriteFile(path, []byte("not a vault"), 0o600))

	_, err := Open(path)
	assert.ErrorIs(t, err, vaulterr.ErrInvalidHeader)
}

func TestWriteAndReadAllEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	header, dek := testHeader(t)
	defer svcrypto.ClearBytes(dek)
	require.NoError(t, Create(path, header))

	store, err := Open(path)
	require.NoError(t, err)

	id := NewEntryID()
	entry := codec.Entry{ID: id, Title: "Email", Username: "alice", Password: "p@ss"}
	require.NoError(t, store.WriteEntry(dek, entry))

	entries, err := store.ReadAllEntries(dek)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
}

func TestListEntries_And_GetEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	header, dek := testHeader(t)
	defer svcrypto.ClearBytes(dek)
	require.NoError(t, Create(path, header))
	store, err := Open(path)
	require.NoError(t, err)

	id := NewEntryID()
	require.NoError(t, store.WriteEntry(dek, codec.Entry{ID: id, Title: "Email", Username: "alice", Password: "p@ss"}))

	list, err := store.ListEntries(dek)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "Email", list[0].Title)

	got, err := store.GetEntry(dek, id)
	require.NoError(t, err)
	assert.Equal(t, "Email", got.Title)

	_, err = store.GetEntry(dek, uuid.New())
	assert.ErrorIs(t, err, vaulterr.ErrNotFound)
}

func TestUpdateEntry_Supersedes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	header, dek := testHeader(t)
	defer svcrypto.ClearBytes(dek)
	require.NoError(t, Create(path, header))
	store, err := Open(path)
	require.NoError(t, err)

	id := NewEntryID()
	require.NoError(t, store.WriteEntry(dek, codec.Entry{ID: id, Title: "Email", Username: "alice", Password: "p@ss"}))

	before, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, store.UpdateEntry(dek, codec.Entry{ID: id, Title: "Email2", Username: "alice", Password: "new"}))

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, after.Size(), before.Size())

	got, err := store.GetEntry(dek, id)
	require.NoError(t, err)
	assert.Equal(t, "Email2", got.Title)

	list, err := store.ListActiveEntries(dek)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Email2", list[0].Title)
}

func TestDeleteEntry_Tombstone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	header, dek := testHeader(t)
	defer svcrypto.ClearBytes(dek)
	require.NoError(t, Create(path, header))
	store, err := Open(path)
	require.NoError(t, err)

	id := NewEntryID()
	require.NoError(t, store.WriteEntry(dek, codec.Entry{ID: id, Title: "Email", Username: "alice", Password: "p@ss"}))
	require.NoError(t, store.DeleteEntry(dek, id))

	active, err := store.ListActiveEntries(dek)
	require.NoError(t, err)
	assert.Empty(t, active)

	got, err := store.GetEntry(dek, id)
	require.NoError(t, err)
	assert.True(t, got.IsTombstone())
}

func TestListActiveEntries_LastWriteWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	header, dek := testHeader(t)
	defer svcrypto.ClearBytes(dek)
	require.NoError(t, Create(path, header))
	store, err := Open(path)
	require.NoError(t, err)

	kept := NewEntryID()
	deleted := NewEntryID()

	require.NoError(t, store.WriteEntry(dek, codec.Entry{ID: kept, Title: "Kept v1", Username: "a", Password: "1"}))
	require.NoError(t, store.WriteEntry(dek, codec.Entry{ID: deleted, Title: "Deleted", Username: "b", Password: "2"}))
	require.NoError(t, store.WriteEntry(dek, codec.Entry{ID: kept, Title: "Kept v2", Username: "a", Password: "3"}))
	require.NoError(t, store.DeleteEntry(dek, deleted))

	active, err := store.ListActiveEntries(dek)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept, active[0].ID)
	assert.Equal(t, "Kept v2", active[0].Title)
}

func TestReadAllEntries_TruncationTolerant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	header, dek := testHeader(t)
	defer svcrypto.ClearBytes(dek)
	require.NoError(t, Create(path, header))
	store, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, store.WriteEntry(dek, codec.Entry{ID: NewEntryID(), Title: "One", Username: "a", Password: "1"}))
	require.NoError(t, store.WriteEntry(dek, codec.Entry{ID: NewEntryID(), Title: "Two", Username: "b", Password: "2"}))

	full, err := store.ReadAllEntries(dek)
	require.NoError(t, err)
	require.Len(t, full, 2)

	info, err := os.Stat(path)
	require.NoError(t, err)

	// Truncate mid-way through the second record: a clean prefix, no error.
	require.NoError(t, os.Truncate(path, info.Size()-5))

	partial, err := store.ReadAllEntries(dek)
	require.NoError(t, err)
	assert.Len(t, partial, 1)
	assert.Equal(t, full[0], partial[0])
}

func TestReadAllEntries_WrongDEKFailsAuthentication(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	header, dek := testHeader(t)
	defer svcrypto.ClearBytes(dek)
	require.NoError(t, Create(path, header))
	store, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, store.WriteEntry(dek, codec.Entry{ID: NewEntryID(), Title: "One", Username: "a", Password: "1"}))

	wrongDEK := make([]byte, len(dek))
	_, err = store.ReadAllEntries(wrongDEK)
	assert.ErrorIs(t, err, vaulterr.ErrCorruptLog)
}
