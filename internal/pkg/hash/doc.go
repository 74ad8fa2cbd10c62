// Package hash hashes user passwords.
//
// Only the hash is stored; login verifies plaintext input against it.
package hash
