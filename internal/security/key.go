package security

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
)

// KeySize is the size of a SecurityKey in bytes (256 bits).
const KeySize = 32

// hexLen is the length of the hex form of a key (two characters per byte).
const hexLen = KeySize * 2

// Key parsing errors.
//
// These can be checked with errors.Is() and are always recoverable; the API
// layer translates them into client-input errors.
var (
	// ErrKeyWrongLength is returned when key data is not exactly 32 bytes
	// (or 64 characters for the hex form).
	ErrKeyWrongLength = errors.New("security: key data length is incorrect")

	// ErrKeyInvalidDigit is returned when a hex string contains a character
	// outside [0-9a-fA-F].
	ErrKeyInvalidDigit = errors.New("security: invalid digit in hex string")

	// ErrNotKeyString is returned by KeyFromString when the input is neither
	// a valid hex key nor a valid base64 key.
	ErrNotKeyString = errors.New("security: not a suitable key string")
)

// SecurityKey is an immutable 256-bit key.
//
// The zero value is the null key (all zero bytes). A null key is
// representable and comparable but is never produced by SRNG.GenerateKey;
// it signals an uninitialised or placeholder key, see IsNull.
//
// SecurityKey is a comparable value type; == compares the raw bytes.
type SecurityKey [KeySize]byte

// KeyFromBytes creates a key from a fixed byte array. It is total: every
// 32-byte value is a valid key.
func KeyFromBytes(b [KeySize]byte) SecurityKey {
	return SecurityKey(b)
}

// KeyFromHex parses a 64-character hex string into a key.
//
// Lowercase, uppercase and mixed-case digits are accepted. The string is
// consumed two characters at a time, most significant nibble first, so the
// first byte of the key comes from the first two characters.
func KeyFromHex(s string) (SecurityKey, error) {
	var key SecurityKey
	if len(s) != hexLen {
		return key, ErrKeyWrongLength
	}
	for i := 0; i < KeySize; i++ {
		hi, err := hexNibble(s[2*i])
		if err != nil {
			return SecurityKey{}, err
		}
		lo, err := hexNibble(s[2*i+1])
		if err != nil {
			return SecurityKey{}, err
		}
		key[i] = hi<<4 | lo
	}
	return key, nil
}

// KeyFromBase64 parses a standard base64 string (with padding) into a key.
// The decoded data must be exactly 32 bytes.
func KeyFromBase64(s string) (SecurityKey, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return SecurityKey{}, fmt.Errorf("security: decoding base64 key: %w", err)
	}
	if len(data) != KeySize {
		return SecurityKey{}, ErrKeyWrongLength
	}
	var key SecurityKey
	copy(key[:], data)
	return key, nil
}

// KeyFromString parses a caller-supplied key in either supported encoding.
//
// A 64-character string is hex-shaped and is tried as hex first; it is only
// treated as base64 if hex decoding fails. Any other length is tried as
// base64 only. When neither decoding succeeds the generic ErrNotKeyString
// is returned.
func KeyFromString(s string) (SecurityKey, error) {
	if len(s) == hexLen {
		if key, err := KeyFromHex(s); err == nil {
			return key, nil
		}
	}
	if key, err := KeyFromBase64(s); err == nil {
		return key, nil
	}
	return SecurityKey{}, ErrNotKeyString
}

// Bytes returns a copy of the underlying 32 bytes.
func (k SecurityKey) Bytes() [KeySize]byte {
	return k
}

// Hex renders the key as a 64-character hex string. The upper parameter
// selects uppercase (true) or lowercase (false) digits. Byte order is
// preserved: the first byte becomes the first two characters.
func (k SecurityKey) Hex(upper bool) string {
	digits := "0123456789abcdef"
	if upper {
		digits = "0123456789ABCDEF"
	}
	buf := make([]byte, 0, hexLen)
	for _, b := range k {
		buf = append(buf, digits[b>>4], digits[b&0x0F])
	}
	return string(buf)
}

// Base64 renders the key as a standard base64 string with padding
// (44 characters).
func (k SecurityKey) Base64() string {
	return base64.StdEncoding.EncodeToString(k[:])
}

// String returns the canonical lowercase hex form.
func (k SecurityKey) String() string {
	return k.Hex(false)
}

// IsNull reports whether the key is the null key (all zero bytes).
func (k SecurityKey) IsNull() bool {
	return k == SecurityKey{}
}

// Equal compares two keys in constant time.
//
// Plain == is correct too, but comparison time would depend on the first
// differing byte. Authorization checks go through Equal so a caller probing
// the x-api-key header cannot learn the key prefix from response timing.
func (k SecurityKey) Equal(other SecurityKey) bool {
	return subtle.ConstantTimeCompare(k[:], other[:]) == 1
}

// MarshalText implements encoding.TextMarshaler. The text form is the
// lowercase hex string; JSON marshalling uses this.
func (k SecurityKey) MarshalText() ([]byte, error) {
	return []byte(k.Hex(false)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the 64-character
// hex form is accepted; any other length is rejected.
func (k *SecurityKey) UnmarshalText(text []byte) error {
	key, err := KeyFromHex(string(text))
	if err != nil {
		return fmt.Errorf("security: parsing key: %w", err)
	}
	*k = key
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler. The binary form is
// exactly the 32 raw key bytes.
func (k SecurityKey) MarshalBinary() ([]byte, error) {
	return append([]byte(nil), k[:]...), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler and rejects any
// input that is not exactly 32 bytes.
func (k *SecurityKey) UnmarshalBinary(data []byte) error {
	if len(data) != KeySize {
		return ErrKeyWrongLength
	}
	copy(k[:], data)
	return nil
}

// hexNibble decodes a single hex digit.
func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, ErrKeyInvalidDigit
	}
}
