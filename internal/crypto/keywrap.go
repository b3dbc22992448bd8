package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
)

// WrappedKey represents an AES-256-GCM encrypted key.
type WrappedKey struct {
	Ciphertext []byte // 48 bytes: 32-byte key + 16-byte GCM auth tag
	Nonce      []byte // 12 bytes: GCM nonce (must be unique per wrap)
}

var (
	ErrRandomGenerationFailed = errors.New("failed to generate random bytes")
	ErrEncryptionFailed       = errors.New("key wrap encryption failed")
)

// GenerateDEK generates a cryptographically secure 256-bit Data Encryption
// Key. The caller must clear it with ClearBytes after use.
func GenerateDEK() (dek []byte, err error) {
	dek = make([]byte, KeyLength)
	if _, err := rand.Read(dek); err != nil {
		return nil, ErrRandomGenerationFailed
	}
	return dek, nil
}

// WrapKey encrypts dek under kek using AES-256-GCM with a fresh nonce.
func WrapKey(dek, kek []byte) (wrapped WrappedKey, err error) {
	if len(dek) != KeyLength {
		return WrappedKey{}, ErrInvalidKeyLength
	}
	if len(kek) != KeyLength {
		return WrappedKey{}, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return WrappedKey{}, ErrEncryptionFailed
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return WrappedKey{}, ErrEncryptionFailed
	}

	nonce := make([]byte, NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return WrappedKey{}, ErrRandomGenerationFailed
	}

	ciphertext := gcm.Seal(nil, nonce, dek, nil)

	return WrappedKey{
		Ciphertext: ciphertext,
		Nonce:      nonce,
	}, nil
}

// UnwrapKey decrypts a WrappedKey produced by WrapKey using kek. Returns
// ErrDecryptionFailed if the auth tag does not verify, never corrupted data.
func UnwrapKey(wrapped WrappedKey, kek []byte) (dek []byte, err error) {
	if len(kek) != KeyLength {
		return nil, ErrInvalidKeyLength
	}

	if len(wrapped.Ciphertext) != KeyLength+16 {
		return nil, ErrInvalidCiphertext
	}
	if len(wrapped.Nonce) != NonceLength {
		return nil, ErrInvalidNonceLength
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	dek, err = gcm.Open(nil, wrapped.Nonce, wrapped.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return dek, nil
}

// GenerateAndWrapDEK creates a new DEK and wraps it with kek. The caller
// must clear the returned dek with ClearBytes once the vault has been written.
func GenerateAndWrapDEK(kek []byte) (dek []byte, wrapped WrappedKey, err error) {
	if len(kek) != KeyLength {
		return nil, WrappedKey{}, ErrInvalidKeyLength
	}

	dek, err = GenerateDEK()
	if err != nil {
		return nil, WrappedKey{}, err
	}

	wrapped, err = WrapKey(dek, kek)
	if err != nil {
		ClearBytes(dek)
		return nil, WrappedKey{}, err
	}

	return dek, wrapped, nil
}
