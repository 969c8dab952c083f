package box

import (
	"bytes"
	"testing"

	"ktkr.us/pkg/bmff"
)

func TestFtypRoundTrip(t *testing.T) {
	f := NewFtypAtom(bmff.ParseType("isom"), 512, []bmff.Type{
		bmff.ParseType("isom"), bmff.ParseType("mp42"),
	})

	out := bmff.NewMemoryByteStream(0)
	defer out.Release()
	if err := f.Write(out); err != nil {
		t.Fatal(err)
	}

	in := bmff.NewMemoryByteStreamFromBytes(out.Data())
	defer in.Release()

	atom, err := Parse(in)
	if err != nil {
		t.Fatal(err)
	}
	parsed, ok := atom.(*FtypAtom)
	if !ok {
		t.Fatalf("Parse returned %T, want *FtypAtom", atom)
	}
	if parsed.MajorBrand != bmff.ParseType("isom") {
		t.Fatalf("MajorBrand = %v", parsed.MajorBrand)
	}
	if len(parsed.CompatibleBrands) != 2 {
		t.Fatalf("CompatibleBrands = %v", parsed.CompatibleBrands)
	}

	reout := bmff.NewMemoryByteStream(0)
	defer reout.Release()
	if err := parsed.Write(reout); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Data(), reout.Data()) {
		t.Fatalf("round-trip mismatch")
	}
}

func TestContainerParseAndRecompute(t *testing.T) {
	child := NewFtypAtom(bmff.ParseType("isom"), 0, nil)

	moov := NewContainerAtom(bmff.TypeMOOV)
	moov.AddChild(child, -1)

	if moov.EffectiveSize() != bmff.HeaderSize32+child.EffectiveSize() {
		t.Fatalf("moov size = %d, want %d", moov.EffectiveSize(), bmff.HeaderSize32+child.EffectiveSize())
	}

	out := bmff.NewMemoryByteStream(0)
	defer out.Release()
	if err := moov.Write(out); err != nil {
		t.Fatal(err)
	}

	in := bmff.NewMemoryByteStreamFromBytes(out.Data())
	defer in.Release()
	atom, err := Parse(in)
	if err != nil {
		t.Fatal(err)
	}
	parsed, ok := atom.(*ContainerAtom)
	if !ok {
		t.Fatalf("Parse returned %T, want *ContainerAtom", atom)
	}
	if parsed.ChildCount() != 1 {
		t.Fatalf("ChildCount() = %d, want 1", parsed.ChildCount())
	}
}

func TestMvhdRoundTrip(t *testing.T) {
	raw := buildMvhdBytes(0, 1000, 2000, 50000)
	in := bmff.NewMemoryByteStreamFromBytes(raw)
	defer in.Release()

	atom, err := Parse(in)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := atom.(*MvhdAtom)
	if !ok {
		t.Fatalf("Parse returned %T, want *MvhdAtom", atom)
	}
	if m.Timescale != 1000 {
		t.Fatalf("Timescale = %d, want 1000", m.Timescale)
	}
	if m.Duration != 2000 {
		t.Fatalf("Duration = %d, want 2000", m.Duration)
	}
	if m.NextTrackID != 50000 {
		t.Fatalf("NextTrackID = %d, want 50000", m.NextTrackID)
	}

	out := bmff.NewMemoryByteStream(0)
	defer out.Release()
	if err := m.Write(out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Data(), raw) {
		t.Fatalf("round-trip mismatch:\ngot  %x\nwant %x", out.Data(), raw)
	}
}

func TestDataAtomInITunesTag(t *testing.T) {
	data := NewDataAtom(1, []byte("Montage"))
	nam := NewContainerAtom(bmff.ParseType("\xa9nam"))
	nam.AddChild(data, -1)

	out := bmff.NewMemoryByteStream(0)
	defer out.Release()
	if err := nam.Write(out); err != nil {
		t.Fatal(err)
	}

	in := bmff.NewMemoryByteStreamFromBytes(out.Data())
	defer in.Release()
	atom, err := Parse(in)
	if err != nil {
		t.Fatal(err)
	}
	parsedNam, ok := atom.(*ContainerAtom)
	if !ok {
		t.Fatalf("Parse returned %T, want *ContainerAtom", atom)
	}
	if parsedNam.ChildCount() != 1 {
		t.Fatalf("ChildCount() = %d, want 1", parsedNam.ChildCount())
	}
	parsedData, ok := parsedNam.Children()[0].(*DataAtom)
	if !ok {
		t.Fatalf("child is %T, want *DataAtom", parsedNam.Children()[0])
	}
	if string(parsedData.Value) != "Montage" {
		t.Fatalf("Value = %q, want %q", parsedData.Value, "Montage")
	}
	if parsedData.TypeIndicator != 1 {
		t.Fatalf("TypeIndicator = %d, want 1", parsedData.TypeIndicator)
	}
}

// buildMvhdBytes hand-assembles a version-0 mvhd atom for test input,
// independent of the package's own writer, so the parse side is tested
// against a ground truth rather than itself.
func buildMvhdBytes(version uint8, timescale, duration uint32, nextTrackID uint32) []byte {
	m := bmff.NewMemoryByteStream(0)
	defer m.Release()

	m.WriteUI32(0) // size placeholder
	m.WriteUI32(uint32(bmff.TypeMVHD))
	m.WriteUI32(uint32(version) << 24)
	m.WriteUI32(0) // creation_time
	m.WriteUI32(0) // modification_time
	m.WriteUI32(timescale)
	m.WriteUI32(duration)
	m.WriteUI32(0x00010000) // rate = 1.0
	m.WriteUI16(0x0100)     // volume = 1.0
	var reserved10 [10]byte
	m.Write(reserved10[:], nil)
	identity := [9]int32{0x10000, 0, 0, 0, 0x10000, 0, 0, 0, 0x40000000}
	for _, v := range identity {
		m.WriteUI32(uint32(v))
	}
	var predefined24 [24]byte
	m.Write(predefined24[:], nil)
	m.WriteUI32(nextTrackID)

	size, _ := m.Size()
	m.Seek(0)
	m.WriteUI32(uint32(size))

	return append([]byte(nil), m.Data()...)
}
