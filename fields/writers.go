package fields

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"github.com/miku/isokit/source"
	"github.com/miku/isokit/tree"
)

func locate(sel *tree.Selector, el *etree.Element, rel string) (*etree.Element, error) {
	if rel == "" || rel == "." {
		return el, nil
	}
	return sel.LocateFirst(el, rel)
}

// Text writes the scalar value into the element at rel, relative to the
// clone. The codeListValue attribute is set for code list fields.
func Text(rel string) Writer {
	return func(sel *tree.Selector, el *etree.Element, f *Field, v source.Value) error {
		target, err := locate(sel, el, rel)
		if err != nil {
			return err
		}
		tree.WriteOrMarkMissing(target, v.String(), f.CodeList)
		return nil
	}
}

// Code writes a code list value at rel.
func Code(rel string) Writer {
	return func(sel *tree.Selector, el *etree.Element, f *Field, v source.Value) error {
		target, err := locate(sel, el, rel)
		if err != nil {
			return err
		}
		tree.WriteOrMarkMissing(target, v.String(), true)
		return nil
	}
}

var entityReplacer = strings.NewReplacer("&gt;", ">", "&gt", ">")

// Keyword writes a keyword, undoing a stray HTML escape of the ">"
// hierarchy separator, e.g. "EARTH SCIENCE &gt OCEANS".
func Keyword(rel string) Writer {
	return func(sel *tree.Selector, el *etree.Element, f *Field, v source.Value) error {
		target, err := locate(sel, el, rel)
		if err != nil {
			return err
		}
		tree.WriteOrMarkMissing(target, entityReplacer.Replace(v.String()), false)
		return nil
	}
}

// Member maps a key of an object value to a relative path.
type Member struct {
	Key  string
	Path string
	Code bool
}

// Group writes the keys of an object value. Missing keys are written as
// missing.
func Group(members ...Member) Writer {
	return func(sel *tree.Selector, el *etree.Element, f *Field, v source.Value) error {
		rec, ok := v.Record()
		if !ok {
			return errors.Errorf("expected object, got %T", v.Raw())
		}
		for _, m := range members {
			target, err := locate(sel, el, m.Path)
			if err != nil {
				return err
			}
			tree.WriteOrMarkMissing(target, rec.Text(m.Key), m.Code)
		}
		return nil
	}
}

// BoundingBox writes west, east, south and north into an
// EX_GeographicBoundingBox.
func BoundingBox() Writer {
	return Group(
		Member{Key: "west", Path: ".//gmd:westBoundLongitude/gco:Decimal"},
		Member{Key: "east", Path: ".//gmd:eastBoundLongitude/gco:Decimal"},
		Member{Key: "south", Path: ".//gmd:southBoundLatitude/gco:Decimal"},
		Member{Key: "north", Path: ".//gmd:northBoundLatitude/gco:Decimal"},
	)
}

// OnlineResource writes linkage, name and description of a
// CI_OnlineResource.
func OnlineResource() Writer {
	return Group(
		Member{Key: "linkage", Path: ".//gmd:CI_OnlineResource/gmd:linkage/gmd:URL"},
		Member{Key: "name", Path: ".//gmd:CI_OnlineResource/gmd:name/gco:CharacterString"},
		Member{Key: "description", Path: ".//gmd:CI_OnlineResource/gmd:description/gco:CharacterString"},
	)
}

var indeterminate = map[string]bool{
	"before":  true,
	"after":   true,
	"now":     true,
	"unknown": true,
}

// TemporalExtent writes start and end of a gml:TimePeriod. The values
// before, after, now and unknown are written as indeterminatePosition on an
// empty position element, which is not a missing value.
func TemporalExtent() Writer {
	return func(sel *tree.Selector, el *etree.Element, f *Field, v source.Value) error {
		rec, ok := v.Record()
		if !ok {
			return errors.Errorf("expected object, got %T", v.Raw())
		}
		for _, m := range []struct{ key, path string }{
			{"start", ".//gml:TimePeriod/gml:beginPosition"},
			{"end", ".//gml:TimePeriod/gml:endPosition"},
		} {
			target, err := sel.LocateFirst(el, m.path)
			if err != nil {
				return err
			}
			value := rec.Text(m.key)
			if indeterminate[value] {
				// The position carries the value; the element stays empty.
				target.SetText("")
				target.CreateAttr("indeterminatePosition", value)
				continue
			}
			target.RemoveAttr("indeterminatePosition")
			tree.WriteOrMarkMissing(target, value, false)
		}
		return nil
	}
}

// Distance writes a spatial resolution with its unit of measure.
func Distance() Writer {
	return func(sel *tree.Selector, el *etree.Element, f *Field, v source.Value) error {
		rec, ok := v.Record()
		if !ok {
			return errors.Errorf("expected object, got %T", v.Raw())
		}
		target, err := sel.LocateFirst(el, ".//gco:Distance")
		if err != nil {
			return err
		}
		tree.WriteOrMarkMissing(target, rec.Text("distance"), false)
		if units := rec.Text("units"); units != "" {
			target.CreateAttr("uom", units)
		}
		return nil
	}
}

// Format writes an MD_Format. A scalar value is the format name; an object
// carries name and version, a missing version is written as missing.
func Format() Writer {
	return func(sel *tree.Selector, el *etree.Element, f *Field, v source.Value) error {
		name, err := sel.LocateFirst(el, ".//gmd:MD_Format/gmd:name/gco:CharacterString")
		if err != nil {
			return err
		}
		rec, ok := v.Record()
		if !ok {
			tree.WriteOrMarkMissing(name, v.String(), false)
			return nil
		}
		tree.WriteOrMarkMissing(name, rec.Text("name"), false)
		version, err := sel.LocateFirst(el, ".//gmd:MD_Format/gmd:version/gco:CharacterString")
		if err != nil {
			return err
		}
		tree.WriteOrMarkMissing(version, rec.Text("version"), false)
		return nil
	}
}
