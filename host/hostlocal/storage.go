package hostlocal

import "os"

// Storage persists the program image to a single flat file, standing in
// for the fixed flash block a real board would expose. The file is
// created (zero-filled to size) the first time NewStorage opens it.
type Storage struct {
	f    *os.File
	size int64
}

// NewStorage opens (creating if necessary) path as a size-byte block
// store.
func NewStorage(path string, size int64) (*Storage, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &Storage{f: f, size: size}, nil
}

func (s *Storage) Erase(addr, length int32) error {
	zeros := make([]byte, length)
	for i := range zeros {
		zeros[i] = 0xFF
	}
	_, err := s.f.WriteAt(zeros, int64(addr))
	return err
}

func (s *Storage) Write(addr int32, buf []byte) error {
	_, err := s.f.WriteAt(buf, int64(addr))
	if err != nil {
		return err
	}
	return s.f.Sync()
}

func (s *Storage) Read(addr int32, buf []byte) error {
	_, err := s.f.ReadAt(buf, int64(addr))
	return err
}

func (s *Storage) Close() error {
	return s.f.Close()
}
