// Package resolver abstracts how sheet file paths become byte buffers.
// The archive/container behind the paths is an external collaborator; the
// engine only ever asks for whole files by relative path.
package resolver

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/WorkingRobot/Lumina/core/errors"
)

// Resolver resolves a container-relative path to the file's full contents.
// Implementations must be safe for concurrent use.
type Resolver interface {
	ReadFile(path string) ([]byte, error)
}

// Compression magic bytes.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Dir resolves paths against a directory on disk. If the plain file does
// not exist it falls back to a compressed sibling (path.gz, then path.xz)
// and decompresses transparently.
type Dir struct {
	root string
}

// NewDir creates a directory-backed resolver rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// ReadFile implements Resolver.
func (d *Dir) ReadFile(path string) ([]byte, error) {
	full := filepath.Join(d.root, filepath.FromSlash(path))

	data, err := os.ReadFile(full)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, errors.NewIO("read", path, err)
	}

	for _, ext := range []string{".gz", ".xz"} {
		data, err := os.ReadFile(full + ext)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.NewIO("read", path+ext, err)
		}
		out, err := Decompress(data)
		if err != nil {
			return nil, errors.NewIO("decompress", path+ext, err)
		}
		return out, nil
	}

	return nil, errors.NewIO("read", path, os.ErrNotExist)
}

// Decompress inflates a gzip- or xz-compressed buffer, detected by magic
// bytes. Buffers with neither magic are returned as-is.
func Decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case bytes.HasPrefix(data, xzMagic):
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(r)
	default:
		return data, nil
	}
}

// Map is an in-memory resolver for tests and embedded data.
type Map map[string][]byte

// ReadFile implements Resolver. The returned slice aliases the map value;
// callers must not mutate it.
func (m Map) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, errors.NewIO("read", path, os.ErrNotExist)
	}
	return data, nil
}
