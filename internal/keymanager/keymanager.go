// Package keymanager is the per-call orchestrator: derive KEK from the
// master password, unwrap the DEK from the vault header, hand the DEK to
// the caller's closure, and scrub both buffers before returning. No key
// material is cached anywhere in this package.
package keymanager

import (
	"fmt"

	"github.com/arimxyer/svlt/internal/codec"
	svcrypto "github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/vaulterr"
	"github.com/arimxyer/svlt/internal/vaultlog"
)

// Create initializes a brand-new vault at path: generates a random salt and
// DEK, wraps the DEK under a freshly-derived KEK, and writes the header.
// The cost parameters are the caller's choice (normally crypto.ArgonCost()).
func Create(path string, master []byte, memKiB, iterations, parallelism uint32) error {
	c := svcrypto.NewCryptoService()

	salt, err := c.GenerateSalt()
	if err != nil {
		return err
	}

	kek, err := c.DeriveKEK(master, salt, memKiB, iterations, parallelism)
	if err != nil {
		return err
	}
	defer svcrypto.ClearBytes(kek)

	dek, wrapped, err := svcrypto.GenerateAndWrapDEK(kek)
	if err != nil {
		return err
	}
	defer svcrypto.ClearBytes(dek)

	wrappedDEK := append(append([]byte{}, wrapped.Nonce...), wrapped.Ciphertext...)

	var saltArr [32]byte
	copy(saltArr[:], salt)

	header := codec.Header{
		Magic:   codec.Magic,
		Version: codec.Version,
		Argon: codec.ArgonParams{
			MemKiB:      memKiB,
			Iterations:  iterations,
			Parallelism: parallelism,
		},
		SaltKEK:    saltArr,
		WrappedDEK: wrappedDEK,
	}

	return vaultlog.Create(path, header)
}

// Unlock opens path, re-derives the KEK from master, and attempts to unwrap
// the DEK, returning vaulterr.ErrAuthenticationFailed on the wrong password.
// The unwrapped DEK is immediately scrubbed; Unlock only verifies that the
// password is correct.
func Unlock(path string, master []byte) error {
	return WithDEK(path, master, func(_ []byte) error { return nil })
}

// WithDEK opens path, derives KEK and unwraps the DEK, invokes fn with the
// DEK, and scrubs the DEK (and the intermediate KEK) before returning,
// regardless of whether fn succeeded.
func WithDEK(path string, master []byte, fn func(dek []byte) error) error {
	store, err := vaultlog.Open(path)
	if err != nil {
		return err
	}

	c := svcrypto.NewCryptoService()

	kek, err := c.DeriveKEK(master, store.Header.SaltKEK[:], store.Header.Argon.MemKiB, store.Header.Argon.Iterations, store.Header.Argon.Parallelism)
	if err != nil {
		return err
	}
	defer svcrypto.ClearBytes(kek)

	wrapped := store.Header.WrappedDEK
	if len(wrapped) < 12+16 {
		return vaulterr.ErrMalformedCiphertext
	}
	wrappedKey := svcrypto.WrappedKey{
		Nonce:      wrapped[:12],
		Ciphertext: wrapped[12:],
	}

	dek, err := svcrypto.UnwrapKey(wrappedKey, kek)
	if err != nil {
		if err == svcrypto.ErrDecryptionFailed {
			return vaulterr.ErrAuthenticationFailed
		}
		if err == svcrypto.ErrInvalidCiphertext {
			return vaulterr.ErrMalformedCiphertext
		}
		return err
	}
	defer svcrypto.ClearBytes(dek)

	if err := fn(dek); err != nil {
		return fmt.Errorf("vault: %w", err)
	}
	return nil
}

// Store opens path and returns the bound vaultlog.Store. The CLI commands
// call it inside their WithDEK closure to read and append entries.
func Store(path string) (*vaultlog.Store, error) {
	return vaultlog.Open(path)
}
