// Package security provides the cryptographic identity primitives for the
// Smart Device Mobile API.
//
// It contains the 256-bit SecurityKey value type with its hex and base64
// textual encodings, and the SRNG secure random source that mints keys and
// time-ordered version 7 UUIDs from raw entropy.
//
// # SecurityKey
//
// Keys are fixed 32-byte values. They are used as the authorization key the
// mobile application must present on the x-api-key header, and as the shared
// key for DHT communication. The canonical text form is the 64-character
// lowercase hex string; standard base64 with padding is accepted on input.
//
// # SRNG
//
// SRNG wraps the operating system CSPRNG (crypto/rand). It is stateless with
// respect to callers and safe for concurrent use. UUID generation follows the
// UUIDv7 bit layout: a 48-bit Unix millisecond timestamp in the high bits,
// the version and variant constants, and 74 random bits.
//
// # Errors
//
// Parsing failures are reported with the sentinel errors ErrKeyWrongLength,
// ErrKeyInvalidDigit and ErrNotKeyString so callers can translate them into
// client-input errors. Random source and clock failures are unexpected and
// should be treated as fatal for the requesting operation.
package security
