package convert

import (
	"testing"

	"github.com/miku/isokit/schema/datacite"
)

func TestRights(t *testing.T) {
	var cases = []struct {
		about  string
		list   []datacite.Rights
		legal  string
		access string
	}{
		{"empty", nil, "", ""},
		{
			"uri is legal",
			[]datacite.Rights{{Rights: "CC BY 4.0", RightsUri: "https://creativecommons.org/licenses/by/4.0/"}},
			"CC BY 4.0 (See also https://creativecommons.org/licenses/by/4.0/ )", "",
		},
		{
			"access phrase",
			[]datacite.Rights{{Rights: "Data are available after registration"}},
			"", "Data are available after registration",
		},
		{
			"arrival order",
			[]datacite.Rights{{Rights: "Use as you like"}, {Rights: "Cite the dataset"}, {Rights: "Dropped"}},
			"Use as you like", "Cite the dataset",
		},
		{
			"first uri wins",
			[]datacite.Rights{{Rights: "A", RightsUri: "https://a"}, {Rights: "B", RightsUri: "https://b"}, {Rights: "Embargoed until 2030"}},
			"A (See also https://a )", "Embargoed until 2030",
		},
		{
			"blank statements are skipped",
			[]datacite.Rights{{Rights: "  "}, {Rights: "Free"}},
			"Free", "",
		},
	}
	for _, c := range cases {
		legal, access := Rights(c.list)
		if legal != c.legal || access != c.access {
			t.Errorf("%s: got (%q, %q), want (%q, %q)", c.about, legal, access, c.legal, c.access)
		}
	}
}

func TestStandardResourceFormat(t *testing.T) {
	for in, want := range map[string]string{
		"":                         UndefinedFormat,
		"NetCDF4":                  "NetCDF",
		"application/x-netcdf":     "NetCDF",
		"netCDF-4/HDF5":            "NetCDF",
		"HDF5":                     "HDF",
		"text/csv":                 "CSV",
		"Comma-Separated Values":   "CSV",
		"text/plain":               "ASCII",
		"image/jpeg":               "JPEG",
		"application/zip":          "Archive",
		"application/octet-stream": "Binary",
		"Zarr store":               "ZARR",
		"unknown":                  UndefinedFormat,
		"shapefile":                OtherFormat,
	} {
		if got := StandardResourceFormat(in); got != want {
			t.Errorf("StandardResourceFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlainText(t *testing.T) {
	for in, want := range map[string]string{
		"plain  text\n here":                      "plain text here",
		"<p>One</p><p>Two<br>Three</p>":           "One Two Three",
		"A &amp; B":                               "A & B",
		`<a href="https://x">link</a> and more  `: "link and more",
	} {
		if got := PlainText(in); got != want {
			t.Errorf("PlainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLastFirst(t *testing.T) {
	for in, want := range map[string]string{
		"John Doe":          "Doe, John",
		"Doe, John":         "Doe, John",
		"John Q. Doe":       "John Q. Doe",
		"NCAR":              "NCAR",
		"":                  "",
		"  Jane   Miller  ": "Miller, Jane",
	} {
		if got := LastFirst(in); got != want {
			t.Errorf("LastFirst(%q) = %q, want %q", in, got, want)
		}
	}
}
