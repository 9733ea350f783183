// Package soulcipher implements a versioned, authenticated, multi-layer
// file encryption scheme for a small, fixed set of sensitive JSON data
// files belonging to a desktop/plugin application.
//
// # Overview
//
// The package protects three target files (rules-index.json,
// minds-index.json, vibe-library.json) that may live, per name, in up to
// three forms in the same directory: plaintext, a local-context cipher
// (".enc"), and a repository-placeholder cipher (".git.enc"). Ciphertext
// is safe to commit: it authenticates itself before any key-derivation
// work is spent, and the repository-placeholder form always decrypts to
// the two-byte document "{}".
//
// # v4 envelope
//
// The current format (v4) wraps plaintext in three nested AEAD layers
// with domain-separated, per-layer Argon2id keys (inner: AES-256-GCM,
// middle: ChaCha20-Poly1305, outer: AES-256-GCM), then appends an
// HMAC-SHA-256 tag — computed with an embedded, build-bound seed — over
// the outer salt and ciphertext. The HMAC is checked before any
// memory-hard key derivation runs, so tampering or a build mismatch fails
// in microseconds rather than after three Argon2id invocations. The HMAC
// key is the seed alone, so a wrong passphrase passes it and fails at the
// outer layer after one Argon2id invocation.
//
// # Legacy formats
//
// v3 (double-layer AES-256-CBC via scrypt) and v2 (single-layer
// AES-256-CBC via scrypt) are read-only, auto-detected by AutoDecode, and
// accepted only when the decrypted bytes are valid UTF-8 — there is no
// authentication tag on either legacy format. ReEncrypt upgrades a legacy
// ciphertext to v4 in place.
//
// # Storage
//
// File-set operations (EncryptLocal, DecryptLocal, EncryptGit,
// DecryptGit, ReEncrypt, Verify) take an absfs.FileSystem so tests can
// run entirely in memory (github.com/absfs/memfs) without touching disk;
// a small os-backed adapter is provided for real directory access. The
// command-line front end, console output, and environment-variable
// plumbing for the passphrase are external collaborators — this package
// exposes structured results instead of printing.
//
// # Not provided
//
// This is not a key-management system: no key rotation protocol, no
// asymmetric keys, no forward secrecy, no streaming/chunked mode (files
// are encrypted whole-buffer), and no network protocol.
package soulcipher
