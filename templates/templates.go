// Package templates bundles the ISO 19139 template documents. Templates can
// be overridden by files of the same name in a directory.
package templates

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/miku/isokit/tree"
)

const (
	// ISO19139 is the full template used for DSET records.
	ISO19139 = "iso19139.xml"
	// DataCite carries NCAR contact defaults for DataCite and Zenodo records.
	DataCite = "datacite.xml"
)

//go:embed *.xml
var bundled embed.FS

// Store looks up templates by name, first in Dir, then in the bundle.
type Store struct {
	Dir string
}

// Load parses a fresh copy of the named template. Every call returns an
// independent tree.
func (s Store) Load(name string) (*tree.Tree, error) {
	if s.Dir != "" {
		filename := filepath.Join(s.Dir, name)
		if _, err := os.Stat(filename); err == nil {
			return tree.ParseFile(filename)
		}
	}
	f, err := bundled.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("template %s not found", name)
		}
		return nil, err
	}
	defer f.Close()
	t, err := tree.Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "template %s", name)
	}
	return t, nil
}

// Names lists the bundled templates.
func Names() ([]string, error) {
	return fs.Glob(bundled, "*.xml")
}
