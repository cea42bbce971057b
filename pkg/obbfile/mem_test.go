package obbfile

import (
	"errors"
	"io"
)

// memFile is an in-memory File.
type memFile struct {
	data []byte
	pos  int64
}

func newMemFile(data []byte) *memFile {
	return &memFile{data: append([]byte(nil), data...)}
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		m.data = append(m.data, make([]byte, end-int64(len(m.data)))...)
	}
	copy(m.data[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = int64(len(m.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = abs
	return abs, nil
}

func (m *memFile) Truncate(size int64) error {
	if size < 0 {
		return errors.New("negative size")
	}
	if size <= int64(len(m.data)) {
		m.data = m.data[:size]
		return nil
	}
	m.data = append(m.data, make([]byte, size-int64(len(m.data)))...)
	return nil
}

// trickleFile returns at most one byte per Read.
type trickleFile struct {
	*memFile
}

func (t trickleFile) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return t.memFile.Read(p)
}

var errDevice = errors.New("device error")

// faultyFile fails the selected operations.
type faultyFile struct {
	*memFile
	failRead     bool
	failWrite    bool
	failSeek     bool
	failTruncate bool
	shortWrite   bool
}

func (f *faultyFile) Read(p []byte) (int, error) {
	if f.failRead {
		return 0, errDevice
	}
	return f.memFile.Read(p)
}

func (f *faultyFile) Write(p []byte) (int, error) {
	if f.failWrite {
		return 0, errDevice
	}
	if f.shortWrite && len(p) > 1 {
		n, _ := f.memFile.Write(p[:len(p)/2])
		return n, io.ErrShortWrite
	}
	return f.memFile.Write(p)
}

func (f *faultyFile) Seek(offset int64, whence int) (int64, error) {
	if f.failSeek {
		return 0, errDevice
	}
	return f.memFile.Seek(offset, whence)
}

func (f *faultyFile) Truncate(size int64) error {
	if f.failTruncate {
		return errDevice
	}
	return f.memFile.Truncate(size)
}
