// Package filemode defines the small set of Unix-ish file modes that can
// appear in a tree entry (§3, §4.7).
package filemode

import (
	"fmt"
	"os"
	"strconv"
)

// FileMode is the octal mode of a tree entry, as found in git's own
// plumbing (the low 9 permission bits plus a handful of reserved type
// bits).
type FileMode uint32

const (
	Empty      FileMode = 0
	Dir        FileMode = 0o40000
	Regular    FileMode = 0o100644
	Deprecated FileMode = 0o100664
	Executable FileMode = 0o100755
	Symlink    FileMode = 0o120000
	Submodule  FileMode = 0o160000
)

// New parses the ASCII octal mode string used in tree entries and git
// command output (e.g. "100644", "40000").
func New(s string) (FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return Empty, fmt.Errorf("filemode: malformed mode %q: %w", s, err)
	}
	return FileMode(n), nil
}

// String returns the canonical ASCII octal representation used when
// encoding a tree (§4.7): "100644", "100755", "120000", "40000", ...
func (m FileMode) String() string {
	return strconv.FormatUint(uint64(m), 8)
}

// IsMalformed reports whether m isn't one of the modes git actually
// produces.
func (m FileMode) IsMalformed() bool {
	switch m {
	case Dir, Regular, Deprecated, Executable, Symlink, Submodule:
		return false
	default:
		return true
	}
}

// IsRegular reports whether m is a (non-executable) regular file, in its
// Regular or Deprecated form.
func (m FileMode) IsRegular() bool { return m == Regular || m == Deprecated }

// IsFile reports whether m is a regular, executable or symlink file mode.
func (m FileMode) IsFile() bool {
	return m == Regular || m == Deprecated || m == Executable || m == Symlink
}

// Bytes returns the 4-byte little-endian encoding of m.
func (m FileMode) Bytes() []byte {
	return []byte{byte(m), byte(m >> 8), byte(m >> 16), byte(m >> 24)}
}

// NewFromOSFileMode converts a standard library os.FileMode into the
// closest matching git FileMode.
func NewFromOSFileMode(m os.FileMode) (FileMode, error) {
	switch {
	case m.IsRegular():
		if m&os.ModeTemporary != 0 {
			return Empty, fmt.Errorf("filemode: no equivalent git mode for %s", m)
		}
		if m&0o111 != 0 {
			return Executable, nil
		}
		return Regular, nil
	case m.IsDir():
		return Dir, nil
	case m&os.ModeSymlink != 0:
		return Symlink, nil
	default:
		return Empty, fmt.Errorf("filemode: no equivalent git mode for %s", m)
	}
}

// ToOSFileMode converts m back into the closest standard library
// os.FileMode, the inverse of NewFromOSFileMode.
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch m {
	case Dir, Submodule:
		return os.ModePerm | os.ModeDir, nil
	case Symlink:
		return os.ModeSymlink | 0o777, nil
	case Regular, Deprecated:
		return 0o644, nil
	case Executable:
		return 0o755, nil
	default:
		return 0, fmt.Errorf("filemode: malformed mode %s", m)
	}
}
