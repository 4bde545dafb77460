package feeds

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// RecordFile reads a possibly compressed file.
type RecordFile struct {
	io.Reader
	closers []func() error
}

// Close releases decompressor and file.
func (f *RecordFile) Close() error {
	var err error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if cerr := f.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// OpenRecordFile opens filename and decompresses .zst and .gz files
// transparently.
func OpenRecordFile(filename string) (*RecordFile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rf := &RecordFile{Reader: f, closers: []func() error{f.Close}}
	switch filepath.Ext(filename) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rf.Reader = dec
		rf.closers = append(rf.closers, func() error { dec.Close(); return nil })
	case ".gz":
		zr, err := pgzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rf.Reader = zr
		rf.closers = append(rf.closers, zr.Close)
	}
	return rf, nil
}

// trimCompression removes a compression extension, "a.json.gz" becomes
// "a.json".
func trimCompression(name string) string {
	for _, ext := range []string{".zst", ".gz"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// RecordName returns the base name of a record file without compression and
// record extensions, "dir/ark-1.json.gz" becomes "ark-1".
func RecordName(filename string) string {
	name := trimCompression(filepath.Base(filename))
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// FindRecordFiles returns all regular files below dir with one of the given
// extensions, compressed variants included, sorted by path.
func FindRecordFiles(dir string, exts ...string) ([]string, error) {
	var result []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		ext := filepath.Ext(trimCompression(d.Name()))
		for _, e := range exts {
			if ext == e {
				result = append(result, path)
				break
			}
		}
		return nil
	})
	sort.Strings(result)
	return result, err
}
