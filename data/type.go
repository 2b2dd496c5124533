package data

// FileType identifies the type of entry in the filesystem.
type FileType int

// File type constants matching the types reported by the Oneprovider API.
const (
	FileTypeRegular   FileType = iota // Regular file ("REG")
	FileTypeDirectory                 // Directory ("DIR")
	FileTypeSymlink                   // Symbolic link ("LNK")
	FileTypeUnknown                   // Anything else
)

// FileTypeFromString converts a REST attribute type value into a FileType.
func FileTypeFromString(s string) FileType {
	switch s {
	case "REG":
		return FileTypeRegular
	case "DIR":
		return FileTypeDirectory
	case "LNK":
		return FileTypeSymlink
	default:
		return FileTypeUnknown
	}
}

// String returns the REST attribute representation of the file type.
func (t FileType) String() string {
	switch t {
	case FileTypeRegular:
		return "REG"
	case FileTypeDirectory:
		return "DIR"
	case FileTypeSymlink:
		return "LNK"
	default:
		return "UNKNOWN"
	}
}
