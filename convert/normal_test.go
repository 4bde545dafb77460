package convert

import (
	"fmt"
	"testing"
)

func TestNormalizeDOI(t *testing.T) {
	testCases := []struct {
		raw    string
		result string
	}{
		{"10.5065/D68S4N4H", "10.5065/d68s4n4h"},
		{"10.1234/asdf ", "10.1234/asdf"},
		{"http://doi.org/10.1234/asdf ", "10.1234/asdf"},
		{"https://dx.doi.org/10.1234/asdf ", "10.1234/asdf"},
		{"https://doi.org/10.5065/D6WD3XH5", "10.5065/d6wd3xh5"},
		{"doi:10.1234/asdf ", "10.1234/asdf"},
		{"doi:10.1234/ asdf ", ""},
		{"10.17167/mksz.2017.2.129–155", ""},
		{"10.6002/ect.2020.häyry", ""},
		{"10.1234", ""},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("testing DOI: %s", tc.raw), func(t *testing.T) {
			cleaned := NormalizeDOI(tc.raw)
			if cleaned != tc.result {
				t.Errorf("want %s, but got %s", tc.result, cleaned)
			}
		})
	}
}

func TestDOISuffix(t *testing.T) {
	for raw, want := range map[string]string{
		"10.5065/d68s4n4h": "d68s4n4h",
		"10.5281/zenodo.1": "zenodo.1",
		"nodoi":            "nodoi",
	} {
		if got := DOISuffix(raw); got != want {
			t.Errorf("DOISuffix(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestFilename(t *testing.T) {
	for id, want := range map[string]string{
		"ark:/85065/d7x":   "ark_85065_d7x.xml",
		"10.5065/d68s4n4h": "10.5065_d68s4n4h.xml",
		"":                 "unnamed.xml",
		"/":                "unnamed.xml",
	} {
		if got := Filename(id, ".xml"); got != want {
			t.Errorf("Filename(%q) = %q, want %q", id, got, want)
		}
	}
}
