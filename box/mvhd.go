package box

import "ktkr.us/pkg/bmff"

// MvhdAtom is the movie header: overall timescale and duration for the
// presentation, plus the rate/volume/matrix playback hints and the
// track-ID allocator. Field layout grounded on ISO/IEC 14496-12 §8.2.2;
// the version-dependent 32-vs-64-bit widths are read and rewritten
// against the stream contract directly, field by field.
type MvhdAtom struct {
	*bmff.Base

	CreationTime     uint64
	ModificationTime uint64
	Timescale        uint32
	Duration         uint64
	Rate             int32 // 16.16 fixed point
	Volume           int16 // 8.8 fixed point
	Matrix           [9]int32
	NextTrackID      uint32
}

func init() {
	Register(bmff.TypeMVHD, true, newMvhdFromStream)
}

func newMvhdFromStream(h Header, stream bmff.ByteStream) (bmff.Atom, error) {
	version, flags, err := bmff.ReadFullHeader(stream)
	if err != nil {
		return nil, err
	}
	m := &MvhdAtom{}
	m.Base = bmff.NewBase(m, h.Type, true)
	m.Base.SetVersion(version)
	m.Base.SetFlags(flags)

	if version == 1 {
		if m.CreationTime, err = stream.ReadUI64(); err != nil {
			return nil, err
		}
		if m.ModificationTime, err = stream.ReadUI64(); err != nil {
			return nil, err
		}
		if m.Timescale, err = stream.ReadUI32(); err != nil {
			return nil, err
		}
		if m.Duration, err = stream.ReadUI64(); err != nil {
			return nil, err
		}
	} else {
		ct, err := stream.ReadUI32()
		if err != nil {
			return nil, err
		}
		mt, err := stream.ReadUI32()
		if err != nil {
			return nil, err
		}
		if m.Timescale, err = stream.ReadUI32(); err != nil {
			return nil, err
		}
		dur, err := stream.ReadUI32()
		if err != nil {
			return nil, err
		}
		m.CreationTime, m.ModificationTime, m.Duration = uint64(ct), uint64(mt), uint64(dur)
	}

	rate, err := stream.ReadUI32()
	if err != nil {
		return nil, err
	}
	m.Rate = int32(rate)

	volume, err := stream.ReadUI16()
	if err != nil {
		return nil, err
	}
	m.Volume = int16(volume)

	// 10 reserved bytes (2-byte + 2x4-byte).
	var skip [10]byte
	if err := skipBytes(stream, skip[:]); err != nil {
		return nil, err
	}

	for i := range m.Matrix {
		v, err := stream.ReadUI32()
		if err != nil {
			return nil, err
		}
		m.Matrix[i] = int32(v)
	}

	// 24 predefined reserved bytes.
	var pre [24]byte
	if err := skipBytes(stream, pre[:]); err != nil {
		return nil, err
	}

	if m.NextTrackID, err = stream.ReadUI32(); err != nil {
		return nil, err
	}

	m.Base.SetSize(m.FieldsSize())
	return m, nil
}

// skipBytes reads len(buf) bytes and discards them, used for the
// reserved/predefined fields this box carries but never exposes.
func skipBytes(stream bmff.ByteStream, buf []byte) error {
	return stream.Read(buf, nil)
}

func (m *MvhdAtom) is64() bool {
	return m.CreationTime > 0xFFFFFFFF || m.ModificationTime > 0xFFFFFFFF || m.Duration > 0xFFFFFFFF
}

// SyncVersion promotes the stored version byte to 1 once a timestamp no
// longer fits in 32 bits. Base.Write calls this before WriteHeader, so
// the header's version byte always matches what WriteFields is about to
// emit.
func (m *MvhdAtom) SyncVersion() {
	if m.is64() {
		m.Base.SetVersion(1)
	} else {
		m.Base.SetVersion(0)
	}
}

func (m *MvhdAtom) FieldsSize() bmff.Size {
	if m.is64() {
		return 28 + 4 + 2 + 10 + 36 + 24 + 4
	}
	return 16 + 4 + 2 + 10 + 36 + 24 + 4
}

func (m *MvhdAtom) WriteFields(stream bmff.ByteStream) error {
	if m.is64() {
		if err := stream.WriteUI64(m.CreationTime); err != nil {
			return err
		}
		if err := stream.WriteUI64(m.ModificationTime); err != nil {
			return err
		}
		if err := stream.WriteUI32(m.Timescale); err != nil {
			return err
		}
		if err := stream.WriteUI64(m.Duration); err != nil {
			return err
		}
	} else {
		if err := stream.WriteUI32(uint32(m.CreationTime)); err != nil {
			return err
		}
		if err := stream.WriteUI32(uint32(m.ModificationTime)); err != nil {
			return err
		}
		if err := stream.WriteUI32(m.Timescale); err != nil {
			return err
		}
		if err := stream.WriteUI32(uint32(m.Duration)); err != nil {
			return err
		}
	}

	if err := stream.WriteUI32(uint32(m.Rate)); err != nil {
		return err
	}
	if err := stream.WriteUI16(uint16(m.Volume)); err != nil {
		return err
	}
	var zero10 [10]byte
	if err := stream.Write(zero10[:], nil); err != nil {
		return err
	}
	for _, v := range m.Matrix {
		if err := stream.WriteUI32(uint32(v)); err != nil {
			return err
		}
	}
	var zero24 [24]byte
	if err := stream.Write(zero24[:], nil); err != nil {
		return err
	}
	return stream.WriteUI32(m.NextTrackID)
}

func (m *MvhdAtom) InspectFields(insp bmff.AtomInspector) error {
	insp.AddFieldUint("creation_time", m.CreationTime, bmff.HintNone)
	insp.AddFieldUint("modification_time", m.ModificationTime, bmff.HintNone)
	insp.AddFieldUint("timescale", uint64(m.Timescale), bmff.HintNone)
	insp.AddFieldUint("duration", m.Duration, bmff.HintNone)
	insp.AddFieldUint("rate", uint64(uint32(m.Rate)), bmff.HintHex)
	insp.AddFieldUint("volume", uint64(uint16(m.Volume)), bmff.HintHex)
	insp.AddFieldUint("next_track_id", uint64(m.NextTrackID), bmff.HintNone)
	return nil
}

func (m *MvhdAtom) Clone() bmff.Atom {
	nm := *m
	nm.Base = m.Base.CloneBase(&nm)
	return &nm
}
