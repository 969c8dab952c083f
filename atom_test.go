package bmff

import "testing"

// TestSmallHeaderRoundTrip checks that a 16-byte plain atom parses as
// an UnknownAtom and writes back byte-identical.
func TestSmallHeaderRoundTrip(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x00, 0x10, 'f', 'r', 'e', 'e',
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	m := NewMemoryByteStreamFromBytes(append([]byte(nil), raw...))
	defer m.Release()

	size32, err := m.ReadUI32()
	if err != nil {
		t.Fatal(err)
	}
	typRaw, err := m.ReadUI32()
	if err != nil {
		t.Fatal(err)
	}

	u, err := NewUnknownAtom(Type(typRaw), size32, 0, false, m)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()

	if u.EffectiveSize() != 16 {
		t.Fatalf("EffectiveSize() = %d, want 16", u.EffectiveSize())
	}
	if u.HeaderSize() != 8 {
		t.Fatalf("HeaderSize() = %d, want 8", u.HeaderSize())
	}

	out := NewMemoryByteStream(0)
	defer out.Release()
	if err := u.Write(out); err != nil {
		t.Fatal(err)
	}
	if string(out.Data()) != string(raw) {
		t.Fatalf("round-trip mismatch: got %v, want %v", out.Data(), raw)
	}
}

// TestExtendedSizeHeaderRoundTrip checks that a size32==1 atom with a
// 64-bit size64, 16 bytes of payload, round-trips byte-identically and
// reports HeaderSize()==16.
func TestExtendedSizeHeaderRoundTrip(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x00, 0x01, 'm', 'd', 'a', 't',
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x20,
	}
	payload := make([]byte, 16)
	for i := range payload {
		payload[i] = byte(i)
	}
	full := append(append([]byte(nil), raw...), payload...)

	m := NewMemoryByteStreamFromBytes(append([]byte(nil), full...))
	defer m.Release()

	size32, err := m.ReadUI32()
	if err != nil {
		t.Fatal(err)
	}
	typRaw, err := m.ReadUI32()
	if err != nil {
		t.Fatal(err)
	}
	size64, err := m.ReadUI64()
	if err != nil {
		t.Fatal(err)
	}

	u, err := NewUnknownAtom(Type(typRaw), size32, size64, false, m)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()

	if u.HeaderSize() != 16 {
		t.Fatalf("HeaderSize() = %d, want 16", u.HeaderSize())
	}
	if u.EffectiveSize() != 32 {
		t.Fatalf("EffectiveSize() = %d, want 32", u.EffectiveSize())
	}

	out := NewMemoryByteStream(0)
	defer out.Release()
	if err := u.Write(out); err != nil {
		t.Fatal(err)
	}
	if string(out.Data()) != string(full) {
		t.Fatalf("round-trip mismatch")
	}
}

// TestFullAtomHeader checks that a full-atom header with version=1,
// flags=0x000007 decodes correctly and reports HeaderSize()==12.
func TestFullAtomHeader(t *testing.T) {
	raw := []byte{0x00, 0x00, 0x00, 0x0C, 't', 'k', 'h', 'd', 0x01, 0x00, 0x00, 0x07}
	m := NewMemoryByteStreamFromBytes(append([]byte(nil), raw...))
	defer m.Release()

	size32, err := m.ReadUI32()
	if err != nil {
		t.Fatal(err)
	}
	typRaw, err := m.ReadUI32()
	if err != nil {
		t.Fatal(err)
	}
	version, flags, err := ReadFullHeader(m)
	if err != nil {
		t.Fatal(err)
	}
	if Type(typRaw) != TypeTKHD {
		t.Fatalf("type = %v, want tkhd", Type(typRaw))
	}
	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}
	if flags != 0x000007 {
		t.Fatalf("flags = %#x, want 0x000007", flags)
	}

	b := NewBase(nil, TypeTKHD, true)
	b.SetVersion(version)
	b.SetFlags(flags)
	_ = size32
	if b.HeaderSize() != 12 {
		t.Fatalf("HeaderSize() = %d, want 12", b.HeaderSize())
	}
}

// TestSetSizePromotion checks that SetSize promotes to the size32==1
// sentinel exactly when the total size exceeds 32 bits.
func TestSetSizePromotion(t *testing.T) {
	b := NewBase(nil, TypeFREE, false)
	b.SetSize(100)
	if b.EffectiveSize() != 108 {
		t.Fatalf("EffectiveSize() = %d, want 108", b.EffectiveSize())
	}
	if b.Size32() == 1 {
		t.Fatal("expected 32-bit size encoding for a small atom")
	}

	big := NewBase(nil, TypeFREE, false)
	big.SetSize(0x1_0000_0000)
	if big.Size32() != 1 {
		t.Fatalf("Size32() = %d, want 1 (extended) for a >4GiB atom", big.Size32())
	}
	if big.EffectiveSize() != 0x1_0000_0000+16 {
		t.Fatalf("EffectiveSize() = %d, want %d", big.EffectiveSize(), 0x1_0000_0000+16)
	}
}

// TestHeaderSizeFormula checks HeaderSize() across all four
// full/extended combinations.
func TestHeaderSizeFormula(t *testing.T) {
	cases := []struct {
		isFull   bool
		extended bool
		want     Size
	}{
		{false, false, 8},
		{true, false, 12},
		{false, true, 16},
		{true, true, 20},
	}
	for _, c := range cases {
		b := NewBase(nil, TypeFREE, c.isFull)
		if c.extended {
			b.SetVersion(0)
			b.SetFlags(0)
			// Force extended form via a payload that overflows 32 bits.
			b.SetSize(0x1_0000_0000)
		} else {
			b.SetSize(4)
		}
		if got := b.HeaderSize(); got != c.want {
			t.Errorf("isFull=%v extended=%v: HeaderSize() = %d, want %d", c.isFull, c.extended, got, c.want)
		}
	}
}
