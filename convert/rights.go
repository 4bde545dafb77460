package convert

import (
	"strings"

	"github.com/miku/isokit/schema/datacite"
)

// accessPhrases mark a rights statement as an access constraint.
var accessPhrases = []string{"access", "restricted", "embargo", "available"}

// Rights sorts rights statements into a legal constraint (useLimitation) and
// an access constraint (otherConstraints). A statement with a URI is legal,
// one mentioning access phrases is access, anything else takes the first
// free slot, legal before access. Statements for a filled slot are dropped.
func Rights(list []datacite.Rights) (legal, access string) {
	for _, r := range list {
		s := strings.TrimSpace(r.Rights)
		switch {
		case r.RightsUri != "":
			if legal == "" {
				legal = strings.TrimSpace(s + " (See also " + r.RightsUri + " )")
			}
		case s == "":
			continue
		case mentionsAccess(s):
			if access == "" {
				access = s
			}
		case legal == "":
			legal = s
		case access == "":
			access = s
		}
	}
	return legal, access
}

func mentionsAccess(s string) bool {
	s = strings.ToLower(s)
	for _, p := range accessPhrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
