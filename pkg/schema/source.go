package schema

import (
	"path/filepath"
)

// Source identifies where a form definition originated so errors can name
// the file without the loader caring whether it came from disk or an fs.FS.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile    SourceKind = "file"
	SourceKindFS      SourceKind = "fs"
	SourceKindBuiltin SourceKind = "builtin"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type builtinSource struct{}

func (builtinSource) Location() string { return "builtin" }

func (builtinSource) Kind() SourceKind { return SourceKindBuiltin }

// SourceBuiltin identifies the compiled-in default form.
func SourceBuiltin() Source {
	return builtinSource{}
}
