package box

import "ktkr.us/pkg/bmff"

// TkhdAtom is the per-track header: identity, timing, and the
// presentation geometry (layer, volume, transform matrix, display
// width/height) a renderer uses to place the track. Width/Height are
// 16.16 fixed-point per ISO/IEC 14496-12 §8.3.2, grounded on the
// teacher-adjacent reference's FixedFloat32 but kept as raw int32 here
// since this package has no float-rendering need for them.
type TkhdAtom struct {
	*bmff.Base

	CreationTime     uint64
	ModificationTime uint64
	TrackID          uint32
	Duration         uint64
	Layer            int16
	AlternateGroup   int16
	Volume           int16
	Matrix           [9]int32
	Width            int32
	Height           int32
}

func init() {
	Register(bmff.TypeTKHD, true, newTkhdFromStream)
}

func newTkhdFromStream(h Header, stream bmff.ByteStream) (bmff.Atom, error) {
	version, flags, err := bmff.ReadFullHeader(stream)
	if err != nil {
		return nil, err
	}
	t := &TkhdAtom{}
	t.Base = bmff.NewBase(t, h.Type, true)
	t.Base.SetVersion(version)
	t.Base.SetFlags(flags)

	if version == 1 {
		if t.CreationTime, err = stream.ReadUI64(); err != nil {
			return nil, err
		}
		if t.ModificationTime, err = stream.ReadUI64(); err != nil {
			return nil, err
		}
		if t.TrackID, err = stream.ReadUI32(); err != nil {
			return nil, err
		}
		var reserved [4]byte
		if err := skipBytes(stream, reserved[:]); err != nil {
			return nil, err
		}
		if t.Duration, err = stream.ReadUI64(); err != nil {
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
		if t.TrackID, err = stream.ReadUI32(); err != nil {
			return nil, err
		}
		var reserved [4]byte
		if err := skipBytes(stream, reserved[:]); err != nil {
			return nil, err
		}
		dur, err := stream.ReadUI32()
		if err != nil {
			return nil, err
		}
		t.CreationTime, t.ModificationTime, t.Duration = uint64(ct), uint64(mt), uint64(dur)
	}

	var reserved2 [8]byte
	if err := skipBytes(stream, reserved2[:]); err != nil {
		return nil, err
	}

	layer, err := stream.ReadUI16()
	if err != nil {
		return nil, err
	}
	t.Layer = int16(layer)

	alt, err := stream.ReadUI16()
	if err != nil {
		return nil, err
	}
	t.AlternateGroup = int16(alt)

	vol, err := stream.ReadUI16()
	if err != nil {
		return nil, err
	}
	t.Volume = int16(vol)

	var reserved3 [2]byte
	if err := skipBytes(stream, reserved3[:]); err != nil {
		return nil, err
	}

	for i := range t.Matrix {
		v, err := stream.ReadUI32()
		if err != nil {
			return nil, err
		}
		t.Matrix[i] = int32(v)
	}

	w, err := stream.ReadUI32()
	if err != nil {
		return nil, err
	}
	t.Width = int32(w)
	hh, err := stream.ReadUI32()
	if err != nil {
		return nil, err
	}
	t.Height = int32(hh)

	t.Base.SetSize(t.FieldsSize())
	return t, nil
}

func (t *TkhdAtom) is64() bool {
	return t.CreationTime > 0xFFFFFFFF || t.ModificationTime > 0xFFFFFFFF || t.Duration > 0xFFFFFFFF
}

// SyncVersion mirrors MvhdAtom.SyncVersion: Base.Write calls this before
// WriteHeader so the serialized version byte matches the field widths
// WriteFields is about to emit.
func (t *TkhdAtom) SyncVersion() {
	if t.is64() {
		t.Base.SetVersion(1)
	} else {
		t.Base.SetVersion(0)
	}
}

func (t *TkhdAtom) FieldsSize() bmff.Size {
	if t.is64() {
		return 32 + 8 + 2 + 2 + 2 + 2 + 36 + 4 + 4
	}
	return 20 + 8 + 2 + 2 + 2 + 2 + 36 + 4 + 4
}

func (t *TkhdAtom) WriteFields(stream bmff.ByteStream) error {
	var zero4 [4]byte
	if t.is64() {
		if err := stream.WriteUI64(t.CreationTime); err != nil {
			return err
		}
		if err := stream.WriteUI64(t.ModificationTime); err != nil {
			return err
		}
		if err := stream.WriteUI32(t.TrackID); err != nil {
			return err
		}
		if err := stream.Write(zero4[:], nil); err != nil {
			return err
		}
		if err := stream.WriteUI64(t.Duration); err != nil {
			return err
		}
	} else {
		if err := stream.WriteUI32(uint32(t.CreationTime)); err != nil {
			return err
		}
		if err := stream.WriteUI32(uint32(t.ModificationTime)); err != nil {
			return err
		}
		if err := stream.WriteUI32(t.TrackID); err != nil {
			return err
		}
		if err := stream.Write(zero4[:], nil); err != nil {
			return err
		}
		if err := stream.WriteUI32(uint32(t.Duration)); err != nil {
			return err
		}
	}

	var zero8 [8]byte
	if err := stream.Write(zero8[:], nil); err != nil {
		return err
	}
	if err := stream.WriteUI16(uint16(t.Layer)); err != nil {
		return err
	}
	if err := stream.WriteUI16(uint16(t.AlternateGroup)); err != nil {
		return err
	}
	if err := stream.WriteUI16(uint16(t.Volume)); err != nil {
		return err
	}
	var zero2 [2]byte
	if err := stream.Write(zero2[:], nil); err != nil {
		return err
	}
	for _, v := range t.Matrix {
		if err := stream.WriteUI32(uint32(v)); err != nil {
			return err
		}
	}
	if err := stream.WriteUI32(uint32(t.Width)); err != nil {
		return err
	}
	return stream.WriteUI32(uint32(t.Height))
}

func (t *TkhdAtom) InspectFields(insp bmff.AtomInspector) error {
	insp.AddFieldUint("track_id", uint64(t.TrackID), bmff.HintNone)
	insp.AddFieldUint("creation_time", t.CreationTime, bmff.HintNone)
	insp.AddFieldUint("modification_time", t.ModificationTime, bmff.HintNone)
	insp.AddFieldUint("duration", t.Duration, bmff.HintNone)
	insp.AddFieldUint("layer", uint64(uint16(t.Layer)), bmff.HintNone)
	insp.AddFieldUint("volume", uint64(uint16(t.Volume)), bmff.HintHex)
	insp.AddFieldUint("width", uint64(uint32(t.Width)), bmff.HintHex)
	insp.AddFieldUint("height", uint64(uint32(t.Height)), bmff.HintHex)
	return nil
}

func (t *TkhdAtom) Clone() bmff.Atom {
	nt := *t
	nt.Base = t.Base.CloneBase(&nt)
	return &nt
}
