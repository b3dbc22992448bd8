package keymanager

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arimxyer/svlt/internal/codec"
	"github.com/arimxyer/svlt/internal/vaulterr"
	"github.com/arimxyer/svlt/internal/vaultlog"
)

const testMemKiB, testIterations, testParallelism = 8 * 1024, 1, 1

func TestCreateAndUnlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")

	require.NoError(t, Create(path, []byte("hunter2"), testMemKiB, testIterations, testParallelism))

	assert.NoError(t, Unlock(path, []byte("hunter2")))

	err := Unlock(path, []byte("hunter3"))
	assert.ErrorIs(t, err, vaulterr.ErrAuthenticationFailed)
}

func TestWithDEK_ScopesDEKToClosure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	require.NoError(t, Create(path, []byte("hunter2"), testMemKiB, testIterations, testParallelism))

	var captured []byte
	err := WithDEK(path, []byte("hunter2"), func(dek []byte) error {
		captured = append([]byte{}, dek...)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, captured, 32)
}

func TestEndToEndCreateAndList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.svlt")
	require.NoError(t, Create(path, []byte("hunter2"), testMemKiB, testIterations, testParallelism))

	var entryID uuid.UUID
	err := WithDEK(path, []byte("hunter2"), func(dek []byte) error {
		newID := vaultlog.NewEntryID()
		entryID = newID
		store, err := vaultlog.Open(path)
		if err != nil {
			return err
		}
		return store.WriteEntry(dek, codec.Entry{ID: newID, Title: "Email", Username: "alice", Password: "p@ss"})
	})
	require.NoError(t, err)

	err = WithDEK(path, []byte("hunter2"), func(dek []byte) error {
		store, err := vaultlog.Open(path)
		if err != nil {
			return err
		}
		list, err := store.ListActiveEntries(dek)
		if err != nil {
			return err
		}
		assert.Len(t, list, 1)
		assert.Equal(t, entryID, list[0].ID)
		assert.Equal(t, "Email", list[0].Title)
		return nil
	})
	require.NoError(t, err)
}
