package convert

import "strings"

// Format names assigned to free text resource formats.
const (
	UndefinedFormat = "UNDEFINED FORMAT"
	OtherFormat     = "OTHER"
)

// resourceFormats are checked in order, the first substring found in the
// lower cased input wins.
var resourceFormats = []struct {
	match string
	name  string
}{
	{"netcdf", "NetCDF"},
	{"matlab", "Matlab"},
	{"pdf", "PDF"},
	{"hdf", "HDF"},
	{"grib", "GRIB"},
	{"csv", "CSV"},
	{"comma-separated", "CSV"},
	{"ascii", "ASCII"},
	{"text/plain", "ASCII"},
	{"jpg", "JPEG"},
	{"jpeg", "JPEG"},
	{"gif", "GIF"},
	{"png", "PNG"},
	{"portable network graphics", "PNG"},
	{"tiff", "TIFF"},
	{"zip", "Archive"},
	{"tar", "Archive"},
	{"application/x-compress", "Archive"},
	{"binary", "Binary"},
	{"octet-stream", "Binary"},
	{"xls", "XLS"},
	{"bufr", "BUFR"},
	{"zarr", "ZARR"},
	{"genpro", "GENPRO"},
	{"fits", "FITS"},
	{"physical", "Physical Media"},
	{"unknown", UndefinedFormat},
	{"undefined", UndefinedFormat},
}

// StandardResourceFormat maps a free text format description, e.g. a MIME
// type or "NetCDF4 files", to a short format name.
func StandardResourceFormat(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UndefinedFormat
	}
	for _, f := range resourceFormats {
		if strings.Contains(s, f.match) {
			return f.name
		}
	}
	return OtherFormat
}

// resourceFormatList normalizes and dedupes formats, keeping first
// occurrence order.
func resourceFormatList(formats []string) []any {
	var (
		seen   = make(map[string]bool)
		result []any
	)
	for _, f := range formats {
		name := StandardResourceFormat(f)
		if seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, map[string]any{"name": name})
	}
	return result
}
