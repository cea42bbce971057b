package obbinfo

import (
	"fmt"
	"io"
)

// Info is a decoded or encodable OBB info footer.
type Info struct {
	flags          Flags
	salt           Salt
	packageName    string
	packageVersion int32
}

// New creates an Info from explicit fields. A nil salt means all zero bytes;
// any other salt must be exactly SaltSize bytes long. The package name must be
// valid UTF-8 of 1 to MaxNameSize bytes. The salted flag is
// taken from flags as given and is not derived from the salt.
func New(flags Flags, salt []byte, packageName string, packageVersion int32) (Info, error) {
	var s Salt
	if salt != nil {
		if len(salt) != SaltSize {
			return Info{}, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidRecord, SaltSize, len(salt))
		}
		copy(s[:], salt)
	}
	if err := validateName(packageName); err != nil {
		return Info{}, err
	}
	return Info{
		flags:          flags,
		salt:           s,
		packageName:    packageName,
		packageVersion: packageVersion,
	}, nil
}

// Flags returns the flag set
func (i Info) Flags() Flags { return i.flags }

// Salt returns a copy of the salt
func (i Info) Salt() Salt { return i.salt }

// PackageName returns the owning package name
func (i Info) PackageName() string { return i.packageName }

// PackageVersion returns the owning package version
func (i Info) PackageVersion() int32 { return i.packageVersion }

// IsOverlay reports whether the overlay flag is set
func (i Info) IsOverlay() bool { return i.flags.Has(FlagOverlay) }

// IsSalted reports whether the salted flag is set
func (i Info) IsSalted() bool { return i.flags.Has(FlagSalted) }

// Size returns the total size of the footer when encoded
func (i Info) Size() int {
	// Header: Version(4) + PackageVersion(4) + Flags(4) + Salt(8) + NameLen(4) = 24 bytes
	// Tag: FooterSize(4) + Signature(4) = 8 bytes
	return headerSize + len(i.packageName) + TagSize
}

// Equal reports whether both values describe the same footer.
func (i Info) Equal(other Info) bool {
	return i == other
}

func (i Info) String() string {
	if !i.IsSalted() {
		return fmt.Sprintf("OBB info [package=%s, version=%d, flags=%s]",
			i.packageName, i.packageVersion, i.flags)
	}
	return fmt.Sprintf("OBB info [package=%s, version=%d, flags=%s, salt=%s]",
		i.packageName, i.packageVersion, i.flags&^FlagSalted, i.salt)
}

// Describe writes a human readable, multi-line description of the footer.
func (i Info) Describe(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Package name: %s\n     Version: %d\n       Flags: %s\n     Overlay: %t\n      Salted: %t\n        Salt: %s\n",
		i.packageName, i.packageVersion, i.flags, i.IsOverlay(), i.IsSalted(), i.salt)
	return err
}
