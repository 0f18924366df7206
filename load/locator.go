// Package load implements the renderer's external collaborators named
// in spec §6: Wavefront OBJ mesh import and image decode for scene
// textures. Paths referenced from a JSON scene document are resolved
// relative to that document's directory, not the process's working
// directory, via Locator.
package load

import (
	"io"
	"os"
	"path/filepath"
)

// Locator resolves scene-relative resource names to open files. It is
// the headless-renderer descendant of the engine's old zip/dev asset
// Locator: this renderer never ships a packaged zip of assets, so the
// platform-specific archive lookup is gone, but the "resolve relative
// to a base directory, not cwd" contract is preserved because the JSON
// scene format (spec §6) depends on it.
type Locator struct {
	base string
}

// NewLocator returns a Locator resolving names relative to base, the
// directory containing the scene document.
func NewLocator(base string) *Locator { return &Locator{base: base} }

// Open resolves name relative to the locator's base directory (unless
// name is already absolute) and opens it for reading. The caller is
// responsible for closing the returned file.
func (l *Locator) Open(name string) (io.ReadCloser, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.base, name)
	}
	return os.Open(path)
}

// Resolve returns the filesystem path name would resolve to, without
// opening it.
func (l *Locator) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.base, name)
}
