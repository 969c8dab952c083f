package bmff

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// FileByteStream is a ByteStream backed by an *os.File, the file-I/O
// collaborator the core spec treats as external. Grounded on the
// teacher's direct os.File use in id3/id3v1 and the io.Seeker
// type-assertion idiom in sound.go's DecodeMeta.
type FileByteStream struct {
	codec
	refCount
	f *os.File
}

// OpenFileByteStream opens name with the given flag/perm and wraps it.
func OpenFileByteStream(name string, flag int, perm os.FileMode) (*FileByteStream, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, errors.Wrap(err, "open file stream")
	}
	return NewFileByteStream(f), nil
}

// NewFileByteStream wraps an already-open file.
func NewFileByteStream(f *os.File) *FileByteStream {
	s := &FileByteStream{f: f}
	s.codec.bind(s)
	s.refCount.n = 1
	return s
}

// Release closes the underlying file once the last reference drops.
func (s *FileByteStream) Release() {
	if s.release() {
		s.f.Close()
	}
}

func (s *FileByteStream) Read(dst []byte, n *int) error {
	if n != nil {
		actual, err := s.f.Read(dst)
		*n = actual
		if actual == 0 && len(dst) > 0 && err != nil {
			return ErrEOS
		}
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "read file stream")
		}
		return nil
	}

	_, err := io.ReadFull(s.f, dst)
	switch err {
	case nil:
		return nil
	case io.EOF, io.ErrUnexpectedEOF:
		return ErrEOS
	default:
		return errors.Wrap(err, "read file stream")
	}
}

func (s *FileByteStream) Write(src []byte, n *int) error {
	actual, err := s.f.Write(src)
	if n != nil {
		*n = actual
	}
	if err != nil {
		return errors.Wrap(err, "write file stream")
	}
	if n == nil && actual != len(src) {
		return ErrIO
	}
	return nil
}

func (s *FileByteStream) Seek(pos Position) error {
	_, err := s.f.Seek(int64(pos), io.SeekStart)
	if err != nil {
		return ErrOutOfRange
	}
	return nil
}

func (s *FileByteStream) Tell() (Position, error) {
	pos, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errors.Wrap(err, "tell file stream")
	}
	return Position(pos), nil
}

func (s *FileByteStream) Size() (Size, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat file stream")
	}
	return Size(info.Size()), nil
}
