package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/argon2"
)

const (
	KeyLength   = 32 // AES-256 key length
	NonceLength = 12 // GCM nonce length
	SaltLength  = 32 // Argon2id salt length

	DefaultMemKiB      = 262144 // Argon2id memory cost, in KiB (256 MiB)
	DefaultIterations  = 3      // Argon2id time cost
	DefaultParallelism = 4      // Argon2id lanes

	MinIterations  = 1
	MinMemKiB      = 8 * 1024
	MinParallelism = 1
)

var (
	ErrInvalidKeyLength   = errors.New("invalid key length")
	ErrInvalidNonceLength = errors.New("invalid nonce length")
	ErrInvalidSaltLength  = errors.New("invalid salt length")
	ErrDecryptionFailed   = errors.New("decryption failed")
	ErrInvalidCiphertext  = errors.New("invalid ciphertext length")
)

// CryptoService groups the KDF and AEAD primitives the rest of the module
// builds on. It carries no state; methods are pure functions of their
// arguments, kept on a receiver to match the call style used elsewhere in
// this codebase.
type CryptoService struct{}

func NewCryptoService() *CryptoService {
	return &CryptoService{}
}

func (c *CryptoService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKEK runs Argon2id over password and salt using the given cost
// parameters and returns a 32-byte key-encryption key.
func (c *CryptoService) DeriveKEK(password []byte, salt []byte, memKiB, iterations, parallelism uint32) ([]byte, error) {
	if len(salt) != SaltLength {
		return nil, ErrInvalidSaltLength
	}
	key := argon2.IDKey(password, salt, iterations, memKiB, uint8(parallelism), KeyLength)
	return key, nil
}

// EncryptWithAAD seals data under key, binding aad into the GCM tag.
func (c *CryptoService) EncryptWithAAD(data []byte, key []byte, aad []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, data, aad)

	result := make([]byte, NonceLength+len(ciphertext))
	copy(result[:NonceLength], nonce)
	copy(result[NonceLength:], ciphertext)

	return result, nil
}

// DecryptWithAAD opens data produced by EncryptWithAAD, checking aad against
// the GCM tag.
func (c *CryptoService) DecryptWithAAD(encryptedData []byte, key []byte, aad []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}

	if len(encryptedData) < NonceLength {
		return nil, ErrInvalidCiphertext
	}

	nonce := encryptedData[:NonceLength]
	ciphertext := encryptedData[NonceLength:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// ClearBytes securely zeros a byte array by overwriting with zeros.
// Uses crypto/subtle.ConstantTimeCompare as a compiler barrier to prevent
// the compiler from optimizing away the zeroing operation.
func ClearBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}

	dummy := make([]byte, len(data))
	subtle.ConstantTimeCompare(data, dummy)
}

// ArgonCost returns the Argon2id cost parameters to use for new vaults.
// SVLT_ARGON2_MEM_KIB, SVLT_ARGON2_ITERATIONS and SVLT_ARGON2_PARALLELISM
// override the defaults; invalid or below-minimum values fall back with a
// warning on stderr.
func ArgonCost() (memKiB, iterations, parallelism uint32) {
	memKiB = envUint32("SVLT_ARGON2_MEM_KIB", DefaultMemKiB, MinMemKiB)
	iterations = envUint32("SVLT_ARGON2_ITERATIONS", DefaultIterations, MinIterations)
	parallelism = envUint32("SVLT_ARGON2_PARALLELISM", DefaultParallelism, MinParallelism)
	return
}

func envUint32(name string, def, min uint32) uint32 {
	envVal := os.Getenv(name)
	if envVal == "" {
		return def
	}

	v, err := strconv.Atoi(envVal)
	if err != nil || v <= 0 {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value '%s', using default %d\n", name, envVal, def)
		return def
	}

	if uint32(v) < min {
		fmt.Fprintf(os.Stderr, "Warning: %s (%d) below minimum (%d), using minimum\n", name, v, min)
		return min
	}

	return uint32(v)
}
