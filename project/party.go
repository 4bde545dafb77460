package project

import (
	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"github.com/miku/isokit/source"
	"github.com/miku/isokit/tree"
)

// Policy decides how absent party sub-fields are treated.
type Policy int

const (
	// OverwriteAlways writes every sub-field, absent ones as empty text with
	// a missing marker.
	OverwriteAlways Policy = iota
	// OverwriteIfPresent only writes sub-fields with a non-empty value and
	// keeps template defaults otherwise.
	OverwriteIfPresent
)

func (p Policy) String() string {
	switch p {
	case OverwriteAlways:
		return "overwrite-always"
	case OverwriteIfPresent:
		return "overwrite-if-present"
	default:
		return "unknown"
	}
}

// Relative paths of the party sub-fields inside a CI_ResponsibleParty.
const (
	NamePath         = ".//gmd:individualName/gco:CharacterString"
	PositionPath     = ".//gmd:positionName/gco:CharacterString"
	OrganizationPath = ".//gmd:organisationName/gco:CharacterString"
	EmailPath        = ".//gmd:contactInfo/gmd:CI_Contact/gmd:address/gmd:CI_Address/gmd:electronicMailAddress/gco:CharacterString"
	RolePath         = ".//gmd:role/gmd:CI_RoleCode"
)

type partyField struct {
	path string
	code bool
	get  func(source.Party) source.Opt
}

var partyFields = []partyField{
	{NamePath, false, func(p source.Party) source.Opt { return p.Name }},
	{PositionPath, false, func(p source.Party) source.Opt { return p.Position }},
	{OrganizationPath, false, func(p source.Party) source.Opt { return p.Organization }},
	{EmailPath, false, func(p source.Party) source.Opt { return p.Email }},
	{RolePath, true, func(p source.Party) source.Opt { return p.Role }},
}

// FillParty writes p into the party element el according to policy.
func FillParty(sel *tree.Selector, el *etree.Element, p source.Party, policy Policy) error {
	for _, f := range partyFields {
		v := f.get(p)
		if policy == OverwriteIfPresent && !v.Filled() {
			continue
		}
		target, err := sel.LocateFirst(el, f.path)
		if err != nil {
			return errors.Wrap(err, "party")
		}
		tree.WriteOrMarkMissing(target, v.Value, f.code)
	}
	return nil
}

// ProjectRequired inserts a clone for p into slot, writing every sub-field.
// A non-empty role overrides the role of p.
func ProjectRequired(sel *tree.Selector, slot *Slot, p source.Party, role string) error {
	if role != "" {
		p = p.WithRole(role)
	}
	return slot.Insert(func(el *etree.Element) error {
		return FillParty(sel, el, p, OverwriteAlways)
	})
}

// ProjectSelective inserts a clone for p into slot, writing only sub-fields
// that carry a value.
func ProjectSelective(sel *tree.Selector, slot *Slot, p source.Party, role string) error {
	if role != "" {
		p = p.WithRole(role)
	}
	return slot.Insert(func(el *etree.Element) error {
		return FillParty(sel, el, p, OverwriteIfPresent)
	})
}
