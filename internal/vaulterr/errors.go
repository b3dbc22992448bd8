// Package vaulterr defines the sentinel errors returned across the vault
// core. Callers should use errors.Is against these values rather than
// comparing error strings.
package vaulterr

import "errors"

var (
	// ErrInvalidHeader means the file's magic bytes, version, or header
	// framing could not be parsed as a valid vault header.
	ErrInvalidHeader = errors.New("invalid vault header")

	// ErrAuthenticationFailed means the master password (or derived KEK)
	// failed to unwrap the DEK. A record whose AEAD tag does not verify is
	// reported as ErrCorruptLog instead.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrMalformedCiphertext means the header's wrapped DEK was structurally
	// invalid independent of authentication (too short, or not the length
	// of nonce + key + tag).
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrCorruptLog means a fully read record failed to decode or
	// authenticate, which a clean truncation can never produce.
	ErrCorruptLog = errors.New("corrupt vault log")

	// ErrNotFound means no entry exists for the requested id.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidArgument means a caller-supplied value (empty title,
	// zero-length rules, bad path) could never succeed.
	ErrInvalidArgument = errors.New("invalid argument")
)
