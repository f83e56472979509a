package security

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

// onesReader yields an endless stream of 0xFF bytes, which makes the UUID
// mask-and-set arithmetic exactly checkable.
type onesReader struct{}

func (onesReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0xFF
	}
	return len(p), nil
}

// failReader simulates an OS random source failure.
type failReader struct{}

func (failReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy pool exhausted")
}

// fixedClock returns a clock stuck at the given Unix millisecond value.
func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestFill(t *testing.T) {
	srng := NewSRNG()
	buf := make([]byte, 64)
	if err := srng.Fill(buf); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if bytes.Equal(buf, make([]byte, 64)) {
		t.Error("Fill() left the buffer all zero")
	}
}

func TestFill_SourceFailure(t *testing.T) {
	srng := newSRNGForTest(failReader{}, time.Now)
	if err := srng.Fill(make([]byte, 8)); err == nil {
		t.Error("Fill() expected error from failing source, got nil")
	}
	if _, err := srng.GenerateKey(); err == nil {
		t.Error("GenerateKey() expected error from failing source, got nil")
	}
	if _, err := srng.GenerateUUID(); err == nil {
		t.Error("GenerateUUID() expected error from failing source, got nil")
	}
}

func TestGenerateKey(t *testing.T) {
	srng := NewSRNG()
	key, err := srng.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	if key.IsNull() {
		t.Error("GenerateKey() returned the null key")
	}
}

// TestGenerateKey_BitFrequency is a randomness sanity check: across many
// keys every bit position should be set roughly half the time. The 25%-75%
// acceptance band keeps the test far from flakiness.
func TestGenerateKey_BitFrequency(t *testing.T) {
	const n = 1000
	srng := NewSRNG()

	var counts [KeySize * 8]int
	for i := 0; i < n; i++ {
		key, err := srng.GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey() error = %v", err)
		}
		for pos := 0; pos < KeySize*8; pos++ {
			if key[pos/8]&(1<<(pos%8)) != 0 {
				counts[pos]++
			}
		}
	}

	for pos, count := range counts {
		if count < n/4 || count > n*3/4 {
			t.Errorf("bit %d set in %d of %d keys, outside 25%%-75%%", pos, count, n)
		}
	}
}

func TestGenerateUUID_Shape(t *testing.T) {
	const n = 1000
	srng := NewSRNG()

	var prevTS uint64
	for i := 0; i < n; i++ {
		id, err := srng.GenerateUUID()
		if err != nil {
			t.Fatalf("GenerateUUID() error = %v", err)
		}

		if version := id[6] >> 4; version != 7 {
			t.Fatalf("UUID %v version nibble = %d, want 7", id, version)
		}
		if variant := id[8] >> 6; variant != 0b10 {
			t.Fatalf("UUID %v variant bits = %02b, want 10", id, variant)
		}

		ts := binary.BigEndian.Uint64(id[0:8]) >> 16
		if ts < prevTS {
			t.Fatalf("UUID timestamps not monotonic: %d after %d", ts, prevTS)
		}
		prevTS = ts
	}
}

// TestGenerateUUID_BitLayout checks the construction bit for bit: with an
// all-ones entropy source every random bit is set, so the only zero bits
// left are the ones the version and variant masks cleared.
func TestGenerateUUID_BitLayout(t *testing.T) {
	const testMillis = 0x0155_5555_5555
	srng := newSRNGForTest(onesReader{}, fixedClock(testMillis))

	id, err := srng.GenerateUUID()
	if err != nil {
		t.Fatalf("GenerateUUID() error = %v", err)
	}

	hi := binary.BigEndian.Uint64(id[0:8])
	lo := binary.BigEndian.Uint64(id[8:16])

	if want := uint64(0x01555555_5555_7FFF); hi != want {
		t.Errorf("high half = %016x, want %016x", hi, want)
	}
	if want := uint64(0xBFFFFFFF_FFFFFFFF); lo != want {
		t.Errorf("low half = %016x, want %016x", lo, want)
	}
}

// TestGenerateUUID_SameMillisecond verifies that UUIDs minted within one
// millisecond share the timestamp field and differ only in random bits.
func TestGenerateUUID_SameMillisecond(t *testing.T) {
	const testMillis = 0x0155_5555_5555
	srng := newSRNGForTest(NewSRNG().rand, fixedClock(testMillis))

	a, err := srng.GenerateUUID()
	if err != nil {
		t.Fatalf("GenerateUUID() error = %v", err)
	}
	b, err := srng.GenerateUUID()
	if err != nil {
		t.Fatalf("GenerateUUID() error = %v", err)
	}

	tsA := binary.BigEndian.Uint64(a[0:8]) >> 16
	tsB := binary.BigEndian.Uint64(b[0:8]) >> 16
	if tsA != testMillis || tsB != testMillis {
		t.Errorf("timestamp fields = %x, %x, want %x", tsA, tsB, uint64(testMillis))
	}
	if a == b {
		t.Error("two UUIDs from the same millisecond are identical")
	}
}

func TestUnixTimeMS(t *testing.T) {
	srng := NewSRNG()
	ms, err := srng.UnixTimeMS()
	if err != nil {
		t.Fatalf("UnixTimeMS() error = %v", err)
	}
	if ms == 0 {
		t.Error("UnixTimeMS() = 0, want current time")
	}
}

func TestUnixTimeMS_BeforeEpoch(t *testing.T) {
	srng := newSRNGForTest(onesReader{}, fixedClock(-1))
	if _, err := srng.UnixTimeMS(); !errors.Is(err, ErrClockBeforeEpoch) {
		t.Errorf("UnixTimeMS() error = %v, want ErrClockBeforeEpoch", err)
	}
	if _, err := srng.GenerateUUID(); !errors.Is(err, ErrClockBeforeEpoch) {
		t.Errorf("GenerateUUID() error = %v, want ErrClockBeforeEpoch", err)
	}
}
