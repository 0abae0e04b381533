package pw

import "io/fs"

// Path is a resolved protected-file location. Symlinks are followed at
// resolve time (on macOS /etc is a link to /private/etc), so String
// returns the real file the helper will overwrite.
type Path struct {
	absPath string
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
// This is primarily for use by FilesystemManager implementations.
func NewPath(absPath string, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		info:    info,
	}
}

// String returns the absolute path as a string.
func (p *Path) String() string {
	return p.absPath
}

// Info returns the cached file info from when the path was resolved.
func (p *Path) Info() fs.FileInfo {
	return p.info
}
