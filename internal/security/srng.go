package security

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrClockBeforeEpoch is returned when the system clock reports a time
// before the Unix epoch. UUID generation cannot proceed; this is an
// unexpected condition and must not be retried.
var ErrClockBeforeEpoch = errors.New("security: system time is before the Unix epoch")

// UUIDv7 bit-layout constants.
//
// The 128-bit value is handled as two big-endian 64-bit halves. The high
// half carries the 48-bit millisecond timestamp, the 4 version bits and
// 12 random bits; the low half carries the 2 variant bits and 62 random
// bits.
const (
	uuidVersionMask  = uint64(0xFFFFFFFF_FFFF0FFF)
	uuidVersionBits  = uint64(0x00000000_00007000)
	uuidVariantMask  = uint64(0x3FFFFFFF_FFFFFFFF)
	uuidVariantBits  = uint64(0x80000000_00000000)
	uuidTimestampMax = uint64(1)<<48 - 1
)

// SRNG is a secure random number generator.
//
// It wraps the operating system CSPRNG and adds convenience constructors
// for SecurityKey values and version 7 UUIDs. The zero-cost construction
// holds no state beyond the OS entropy pool, so a single SRNG may be used
// concurrently without locking.
type SRNG struct {
	rand io.Reader
	now  func() time.Time
}

// NewSRNG creates a generator backed by crypto/rand and the wall clock.
func NewSRNG() *SRNG {
	return &SRNG{
		rand: rand.Reader,
		now:  time.Now,
	}
}

// newSRNGForTest creates a generator with a custom entropy source and
// clock. Production code must never swap these implicitly; deterministic
// tests are the only caller.
func newSRNGForTest(entropy io.Reader, now func() time.Time) *SRNG {
	return &SRNG{rand: entropy, now: now}
}

// Fill fills buf with output from the random source.
//
// It fails only if the underlying OS facility fails; a short or zero fill
// is never silently returned. An RNG failure is not expected to be
// transient and the operation that requested randomness should fail.
func (s *SRNG) Fill(buf []byte) error {
	if _, err := io.ReadFull(s.rand, buf); err != nil {
		return fmt.Errorf("security: reading from random source: %w", err)
	}
	return nil
}

// GenerateKey creates a new random 256-bit key.
//
// The null key is only possible by statistically negligible chance and
// callers are not required to special-case it.
func (s *SRNG) GenerateKey() (SecurityKey, error) {
	var key SecurityKey
	if err := s.Fill(key[:]); err != nil {
		return SecurityKey{}, err
	}
	return key, nil
}

// GenerateUUID creates a version 7 UUID.
//
// Field layout, most significant bit first:
//
//	| bits | field      | content                                  |
//	|------|------------|------------------------------------------|
//	| 48   | unix_ts_ms | Unix time in milliseconds, big-endian    |
//	| 4    | version    | constant 0b0111 (7)                      |
//	| 12   | rand_a     | random                                   |
//	| 2    | variant    | constant 0b10                            |
//	| 62   | rand_b     | random                                   |
//
// The timestamp is shifted into the top of the value, the remaining ten
// bytes are filled with random output, and the version and variant bits
// are then cleared and set with mask-and-set. UUIDs minted by the same
// generator are monotonically non-decreasing in their timestamp field as
// long as the wall clock is.
func (s *SRNG) GenerateUUID() (uuid.UUID, error) {
	ms, err := s.UnixTimeMS()
	if err != nil {
		return uuid.UUID{}, err
	}

	// Ten random bytes for rand_a and rand_b; the first six stay zero so
	// the OR below leaves the timestamp untouched.
	var b [16]byte
	if err := s.Fill(b[6:]); err != nil {
		return uuid.UUID{}, err
	}

	hi := ms<<16 | binary.BigEndian.Uint64(b[0:8])
	lo := binary.BigEndian.Uint64(b[8:16])

	hi = hi&uuidVersionMask | uuidVersionBits
	lo = lo&uuidVariantMask | uuidVariantBits

	var out uuid.UUID
	binary.BigEndian.PutUint64(out[0:8], hi)
	binary.BigEndian.PutUint64(out[8:16], lo)
	return out, nil
}

// UnixTimeMS returns the current Unix time in milliseconds, truncated to
// the 48 bits a UUIDv7 can carry.
//
// It returns ErrClockBeforeEpoch if the clock reports a time before the
// epoch.
func (s *SRNG) UnixTimeMS() (uint64, error) {
	ms := s.now().UnixMilli()
	if ms < 0 {
		return 0, ErrClockBeforeEpoch
	}
	return uint64(ms) & uuidTimestampMax, nil
}
