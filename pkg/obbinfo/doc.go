// Package obbinfo provides the OBB info footer record and its binary codec.
//
// An OBB info footer is a small self-describing block appended to the end of
// an expansion data file. It names the owning package, its version and a set
// of flags, and can be located by reading backward from end-of-file.
//
// # Footer Format
//
// All integers are 32-bit little-endian:
//
//	[Version(4)][PackageVersion(4)][Flags(4)][Salt(8)][NameLen(4)][Name][FooterSize(4)][Signature(4)]
//
// Fields:
//   - Version: always 1
//   - PackageVersion: signed version code of the owning package
//   - Flags: bit 0 overlay, bit 1 salted
//   - Salt: 8 raw bytes, all zero when unused
//   - NameLen: byte length of the UTF-8 package name
//   - FooterSize: number of bytes preceding the FooterSize field (NameLen + 24)
//   - Signature: 0x01059983
//
// The total footer size is NameLen + 32. The final 8 bytes (FooterSize and
// Signature) form the tag that readers look for at end-of-file.
//
// # Usage
//
//	info, err := obbinfo.New(obbinfo.FlagOverlay, nil, "com.example.game", 42)
//	if err != nil {
//	    return err
//	}
//
//	encoded, err := obbinfo.Encode(info)
//	if err != nil {
//	    return err
//	}
//
//	decoded, err := obbinfo.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//
// Decode only understands the footer body. Locating the body inside a file,
// and validating the tag, is done by package obbfile.
//
// # Thread Safety
//
// Info values are immutable and safe to share between goroutines.
package obbinfo
