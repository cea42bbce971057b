// Package obbfile locates, appends and removes OBB info footers at the tail
// of random-access files.
package obbfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/andeb/obbutil/pkg/obbinfo"
)

// File is the random-access capability needed to modify a footer.
// *os.File satisfies it.
type File interface {
	io.ReadWriteSeeker
	Truncate(size int64) error
}

// Locate reads the footer at the end of r.
//
// It returns *obbinfo.NotObbError when r holds no valid version-1 footer and
// *obbinfo.IOError when the underlying reads fail.
func Locate(r io.ReadSeeker) (obbinfo.Info, error) {
	fileSize, err := length(r)
	if err != nil {
		return obbinfo.Info{}, err
	}
	if fileSize < obbinfo.TagSize {
		return obbinfo.Info{}, &obbinfo.NotObbError{Reason: "too small"}
	}

	// seek to head of tag
	if err := seek(r, fileSize-obbinfo.TagSize); err != nil {
		return obbinfo.Info{}, err
	}
	tag, err := readExact(r, obbinfo.TagSize)
	if err != nil {
		return obbinfo.Info{}, err
	}
	footerSize := int64(binary.LittleEndian.Uint32(tag[0:4]))
	signature := binary.LittleEndian.Uint32(tag[4:8])

	if signature != obbinfo.Signature {
		return obbinfo.Info{}, &obbinfo.NotObbError{Reason: "signature mismatch"}
	}
	if footerSize > obbinfo.MaxFooterSize || footerSize < obbinfo.MinFooterSize-obbinfo.TagSize {
		return obbinfo.Info{}, &obbinfo.NotObbError{Reason: "invalid size"}
	}

	// seek to head of footer
	start := fileSize - footerSize - obbinfo.TagSize
	if start < 0 {
		return obbinfo.Info{}, &obbinfo.NotObbError{Reason: "footer exceeds file size"}
	}
	if err := seek(r, start); err != nil {
		return obbinfo.Info{}, err
	}
	body, err := readExact(r, int(footerSize))
	if err != nil {
		return obbinfo.Info{}, err
	}

	info, err := obbinfo.Decode(body)
	if err != nil {
		return obbinfo.Info{}, &obbinfo.NotObbError{Reason: err.Error(), Err: err}
	}
	return info, nil
}

// Append writes info as a footer after the current end of f. It does not
// check whether f already carries a footer. If the write fails, f is
// truncated back to its original length.
func Append(f File, info obbinfo.Info) error {
	encoded, err := obbinfo.Encode(info)
	if err != nil {
		return err
	}

	fileSize, err := length(f)
	if err != nil {
		return err
	}

	if err := f.Truncate(fileSize + int64(len(encoded))); err != nil {
		return &obbinfo.IOError{Op: "extend", Err: err}
	}
	if err := seek(f, fileSize); err != nil {
		return rollback(f, fileSize, err)
	}
	if _, err := f.Write(encoded); err != nil {
		return rollback(f, fileSize, &obbinfo.IOError{Op: "write", Err: err})
	}
	return nil
}

// Remove truncates the footer described by info from the end of f. info must
// come from a successful Locate on the same file; the bytes being removed are
// not re-verified.
func Remove(f File, info obbinfo.Info) error {
	fileSize, err := length(f)
	if err != nil {
		return err
	}

	size := int64(info.Size())
	if size > fileSize {
		return &obbinfo.IOError{
			Op:  "truncate",
			Err: fmt.Errorf("footer of %d bytes exceeds file size %d", size, fileSize),
		}
	}
	if err := f.Truncate(fileSize - size); err != nil {
		return &obbinfo.IOError{Op: "truncate", Err: err}
	}
	return nil
}

func rollback(f File, size int64, cause error) error {
	if err := f.Truncate(size); err != nil {
		return fmt.Errorf("%w (rollback failed: %v)", cause, err)
	}
	return cause
}

func length(s io.Seeker) (int64, error) {
	n, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, &obbinfo.IOError{Op: "seek", Err: err}
	}
	return n, nil
}

func seek(s io.Seeker, offset int64) error {
	if _, err := s.Seek(offset, io.SeekStart); err != nil {
		return &obbinfo.IOError{Op: "seek", Err: err}
	}
	return nil
}

// readExact reads exactly n bytes, looping over partial reads.
func readExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &obbinfo.IOError{Op: "read", Err: err}
	}
	return buf, nil
}
