// Package secure provides memory-safe ownership of cryptographic secret
// material.
//
// This package wraps the memguard library to hold secret bytes in hardened
// allocations. Every region it hands out is:
//
//   - Protected from swapping via mlock
//   - Fenced by guard pages against overflow
//   - Overwritten with zeros on every release path
//
// # Ownership model
//
// A Memory value exclusively owns its region. There is deliberately no copy
// operation: duplicating secret bytes is a semantic error, not an
// inefficiency. Ownership transfers through Move, which leaves the source
// empty (size 0). Constructing a buffer from raw bytes copies into a fresh
// region; the source is never adopted.
//
// Semantic roles are expressed as distinct wrapper types (Buffer,
// PublicKey, PrivateKey, Signature, SharedSecret) so that a private key
// cannot be passed where a public key is expected. Each wrapper adds one
// domain capability on top of Memory and nothing else.
//
// # Release discipline
//
// Release zeroizes and frees; it is idempotent, and callers are expected to
// defer it at acquisition. Clear zeroizes in place without freeing for
// regions that will be reused.
//
// # Platform Behavior
//
// Memory locking behavior varies by platform:
//
//   - Linux: Requires RLIMIT_MEMLOCK to be set appropriately
//   - macOS: Works out of the box
//   - Windows: Uses VirtualLock
//
// For complete cleanup of all protected allocations at process exit, call
// memguard.Purge() in a defer statement in main().
package secure
