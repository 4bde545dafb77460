package convert

import (
	"regexp"
	"strings"
)

var doiRegex = regexp.MustCompile(`^10\.\d{4,}/\S+$`)

// NormalizeDOI returns a lower case DOI without resolver or scheme prefix,
// or the empty string, if raw does not look like a DOI.
func NormalizeDOI(raw string) string {
	if raw == "" {
		return ""
	}
	raw = strings.TrimSpace(strings.ToLower(raw))
	if strings.Contains(raw, "–") {
		return ""
	}
	if strings.Count(raw, " ") != 0 {
		return ""
	}
	for _, prefix := range []string{"doi:", "http://", "https://", "doi.org/", "dx.doi.org/"} {
		raw = strings.TrimPrefix(raw, prefix)
	}
	if !strings.HasPrefix(raw, "10.") {
		return ""
	}
	if !doiRegex.MatchString(raw) {
		return ""
	}
	if !isASCII(raw) {
		return ""
	}
	return raw
}

// DOISuffix returns the part after the prefix, used as output filename,
// e.g. "d68s4n4h" for "10.5065/d68s4n4h".
func DOISuffix(doi string) string {
	if _, suffix, ok := strings.Cut(doi, "/"); ok {
		return suffix
	}
	return doi
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename turns a record identifier into a file name with the given
// extension, e.g. "ark:/85065/d7x" becomes "ark_85065_d7x.xml".
func Filename(id, ext string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(id, "_"), "_")
	if name == "" {
		name = "unnamed"
	}
	return name + ext
}
