package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Magic:   Magic,
		Version: Version,
		Argon: ArgonParams{
			MemKiB:      262144,
			Iterations:  3,
			Parallelism: 4,
		},
		WrappedDEK: make([]byte, 60),
	}
	for i := range h.SaltKEK {
		h.SaltKEK[i] = byte(i)
	}
	for i := range h.WrappedDEK {
		h.WrappedDEK[i] = byte(255 - i)
	}

	encoded := EncodeHeader(h)
	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestDecodeHeader_Truncated(t *testing.T) {
	_, err := DecodeHeader([]byte{'S', 'V'})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeHeader_TrailingBytes(t *testing.T) {
	h := Header{Magic: Magic, Version: Version, WrappedDEK: nil}
	encoded := EncodeHeader(h)
	encoded = append(encoded, 0xFF)
	_, err := DecodeHeader(encoded)
	assert.ErrorIs(t, err, ErrTrailing)
}

func TestEntryRoundTrip(t *testing.T) {
	e := Entry{
		Title:    "Email",
		Username: "alice",
		Password: "p@ss",
	}
	for i := range e.ID {
		e.ID[i] = byte(i)
	}

	encoded := EncodeEntry(e)
	decoded, err := DecodeEntry(encoded)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestEntryRoundTrip_EmptyStrings(t *testing.T) {
	e := Entry{}
	encoded := EncodeEntry(e)
	decoded, err := DecodeEntry(encoded)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
	assert.True(t, decoded.IsTombstone())
}

func TestEntry_IsTombstone(t *testing.T) {
	assert.True(t, Entry{}.IsTombstone())
	assert.False(t, Entry{Title: "x"}.IsTombstone())
}

func TestDecodeEntry_Truncated(t *testing.T) {
	_, err := DecodeEntry([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestEntry_LongStringsRoundTrip(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	e := Entry{Title: string(long), Username: "u", Password: "p"}
	encoded := EncodeEntry(e)
	decoded, err := DecodeEntry(encoded)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}
