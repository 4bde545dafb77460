package tree

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	// GCONamespace is the namespace of the nilReason attribute.
	GCONamespace = "http://www.isotc211.org/2005/gco"
	// NilReasonKey marks a parent whose child value is intentionally absent.
	NilReasonKey = "nilReason"
	// CodeListValueAttr carries the machine readable value of a code element.
	CodeListValueAttr = "codeListValue"
	// Missing is the nil reason written for absent values.
	Missing = "missing"
)

// WriteOrMarkMissing sets the text of el. Non-empty text removes any nil
// reason from the parent; empty text clears el and marks the parent with
// gco:nilReason="missing". With setCode the codeListValue attribute mirrors
// the text, which keeps the attribute present on code elements even when the
// value is empty.
func WriteOrMarkMissing(el *etree.Element, text string, setCode bool) {
	parent := el.Parent()
	if text == "" {
		el.SetText("")
		if parent != nil && !IsDocument(parent) {
			removeNilReason(parent)
			parent.CreateAttr(gcoPrefix(parent)+":"+NilReasonKey, Missing)
		}
	} else {
		el.SetText(text)
		if parent != nil {
			removeNilReason(parent)
		}
	}
	if setCode {
		el.CreateAttr(CodeListValueAttr, text)
	}
}

// gcoPrefix returns the prefix bound to the gco namespace in scope of el,
// "gco" if there is none.
func gcoPrefix(el *etree.Element) string {
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if a.Space == "xmlns" && a.Value == GCONamespace {
				return a.Key
			}
		}
	}
	return "gco"
}

// removeNilReason drops nilReason whatever prefix the template bound gco to.
func removeNilReason(el *etree.Element) {
	for i := 0; i < len(el.Attr); i++ {
		if el.Attr[i].Key == NilReasonKey {
			el.Attr = append(el.Attr[:i], el.Attr[i+1:]...)
			i--
		}
	}
}

// HasMissingMarker reports whether el carries a nil reason.
func HasMissingMarker(el *etree.Element) bool {
	for _, a := range el.Attr {
		if a.Key == NilReasonKey {
			return true
		}
	}
	return false
}

// FormatValue renders a scalar source value as element text. Numbers come out
// in canonical decimal form: integers without fraction, floats in the
// shortest representation that round trips, never in exponent notation.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return canonicalNumber(string(x))
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return canonicalNumber(fmt.Sprint(v))
	}
}

var (
	integerLiteral = regexp.MustCompile(`^([+-]?)([0-9]+)$`)
	decimalLiteral = regexp.MustCompile(`^([+-]?)([0-9]*)\.([0-9]*)$`)
)

// canonicalNumber rewrites plain decimal literals textually, so digits
// beyond float64 precision survive. Exponent forms go through ParseFloat.
func canonicalNumber(s string) string {
	s = strings.TrimSpace(s)
	if m := integerLiteral.FindStringSubmatch(s); m != nil {
		return signed(m[1], strings.TrimLeft(m[2], "0"), "")
	}
	if m := decimalLiteral.FindStringSubmatch(s); m != nil && m[2]+m[3] != "" {
		return signed(m[1], strings.TrimLeft(m[2], "0"), strings.TrimRight(m[3], "0"))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

func signed(sign, whole, frac string) string {
	if whole == "" {
		whole = "0"
	}
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if sign == "-" && out != "0" {
		out = "-" + out
	}
	return out
}
