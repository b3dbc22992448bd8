package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

var ErrShortItemID = errors.New("item id too short")

// DeriveItemKey derives a per-entry key from dek using HKDF-SHA256 with no
// salt and info bound to the entry's id, so two entries never share a key
// even when both are wrapped under the same DEK.
func DeriveItemKey(dek []byte, itemID []byte) ([]byte, error) {
	if len(dek) != KeyLength {
		return nil, ErrInvalidKeyLength
	}
	if len(itemID) == 0 {
		return nil, ErrShortItemID
	}

	info := append([]byte("item"), itemID...)
	r := hkdf.New(sha256.New, dek, nil, info)

	itemKey := make([]byte, KeyLength)
	if _, err := io.ReadFull(r, itemKey); err != nil {
		return nil, err
	}
	return itemKey, nil
}

// SignHeader signs data with an Ed25519 private key, for forward-compatible
// header authentication. The current on-disk format does not require a
// header signature; this exists so a future format revision can adopt one
// without changing the crypto package's surface.
func SignHeader(priv ed25519.PrivateKey, data []byte) []byte {
	return ed25519.Sign(priv, data)
}

// VerifyHeader reports whether sig is a valid Ed25519 signature over data
// under pub.
func VerifyHeader(pub ed25519.PublicKey, data, sig []byte) bool {
	return ed25519.Verify(pub, data, sig)
}
