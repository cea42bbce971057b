package obbinfo

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

const (
	// Version is the only footer version this package reads and writes.
	Version uint32 = 1

	// Signature marks the last 4 bytes of a file carrying a footer.
	Signature uint32 = 0x01059983

	// TagSize is the size of the trailing FooterSize and Signature fields.
	TagSize = 8

	// MaxFooterSize bounds the FooterSize field accepted by readers.
	MaxFooterSize = 32768

	// MinFooterSize is the smallest complete footer, one with a 1-byte name.
	MinFooterSize = headerSize + 1 + TagSize

	// MaxNameSize is the longest package name, in bytes, whose footer a
	// reader still accepts.
	MaxNameSize = MaxFooterSize - headerSize

	headerSize = 24
)

// Encode serializes info into its on-disk footer form
// Format: [Version][PackageVersion][Flags][Salt][NameLen][Name][FooterSize][Signature]
func Encode(info Info) ([]byte, error) {
	if err := validateName(info.packageName); err != nil {
		return nil, err
	}
	name := []byte(info.packageName)

	buf := make([]byte, info.Size())

	binary.LittleEndian.PutUint32(buf[0:], Version)
	binary.LittleEndian.PutUint32(buf[4:], uint32(info.packageVersion))
	binary.LittleEndian.PutUint32(buf[8:], uint32(info.flags))
	copy(buf[12:20], info.salt[:])
	binary.LittleEndian.PutUint32(buf[20:], uint32(len(name)))
	copy(buf[headerSize:], name)

	// FooterSize counts the bytes written so far, i.e. everything before the tag.
	off := headerSize + len(name)
	binary.LittleEndian.PutUint32(buf[off:], uint32(off))
	binary.LittleEndian.PutUint32(buf[off+4:], Signature)

	return buf, nil
}

// Decode deserializes a footer body starting at its version field. Bytes
// after the package name, such as the tag, are ignored. FooterSize and
// Signature are not checked here.
func Decode(data []byte) (Info, error) {
	if len(data) < headerSize {
		return Info{}, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrTruncated, len(data), headerSize)
	}

	if v := binary.LittleEndian.Uint32(data[0:4]); v != Version {
		return Info{}, &UnsupportedVersionError{Version: v}
	}

	info := Info{
		packageVersion: int32(binary.LittleEndian.Uint32(data[4:8])),
		flags:          Flags(binary.LittleEndian.Uint32(data[8:12])),
	}
	copy(info.salt[:], data[12:20])

	nameLen := binary.LittleEndian.Uint32(data[20:24])
	if uint64(nameLen) > uint64(len(data)-headerSize) {
		return Info{}, fmt.Errorf("%w: package name of %d bytes exceeds footer", ErrTruncated, nameLen)
	}

	name := data[headerSize : headerSize+int(nameLen)]
	if len(name) == 0 {
		return Info{}, fmt.Errorf("%w: empty", ErrMalformedName)
	}
	if len(name) > MaxNameSize {
		return Info{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrMalformedName, len(name), MaxNameSize)
	}
	if !utf8.Valid(name) {
		return Info{}, fmt.Errorf("%w: not valid UTF-8", ErrMalformedName)
	}
	info.packageName = string(name)

	return info, nil
}

// validateName rejects names that Decode or a reader would not accept back.
func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: package name must not be empty", ErrInvalidRecord)
	case len(name) > MaxNameSize:
		return fmt.Errorf("%w: package name of %d bytes exceeds %d", ErrInvalidRecord, len(name), MaxNameSize)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: package name is not valid UTF-8", ErrInvalidRecord)
	}
	return nil
}
