package convert

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"github.com/miku/isokit/project"
	"github.com/miku/isokit/schema/zenodo"
	"github.com/miku/isokit/tree"
)

// CreatorsFromISO returns the cited contacts with role author as Zenodo
// creators. Names of the form "First Last" are rewritten to "Last, First".
func CreatorsFromISO(t *tree.Tree, sel *tree.Selector) ([]zenodo.Person, error) {
	els, err := sel.Locate(t.Root(), CitedContact+authorRoleCodeCondition)
	if err != nil {
		return nil, err
	}
	var creators []zenodo.Person
	for _, el := range els {
		p := personFrom(sel, el)
		if p.Name == "" && p.Affiliation == "" {
			continue
		}
		creators = append(creators, p)
	}
	return creators, nil
}

// ContributorsFromISO returns cited and support contacts whose role code has
// a Zenodo contributor type in roles.
func ContributorsFromISO(t *tree.Tree, sel *tree.Selector, roles map[string]string) ([]zenodo.Person, error) {
	var contributors []zenodo.Person
	for _, path := range []string{CitedContact, SupportContact} {
		els, err := sel.Locate(t.Root(), path)
		if err != nil {
			return nil, err
		}
		for _, el := range els {
			code := roleCode(sel, el)
			typ, ok := roles[code]
			if !ok || typ == "" {
				continue
			}
			p := personFrom(sel, el)
			if p.Name == "" {
				continue
			}
			p.Type = typ
			contributors = append(contributors, p)
		}
	}
	return contributors, nil
}

// ISOToZenodo extracts deposition metadata from an ISO 19139 document.
func ISOToZenodo(t *tree.Tree, sel *tree.Selector) (*zenodo.Deposition, error) {
	creators, err := CreatorsFromISO(t, sel)
	if err != nil {
		return nil, err
	}
	if len(creators) == 0 {
		return nil, errors.New("no authors in document")
	}
	contributors, err := ContributorsFromISO(t, sel, ISOToZenodoRoles)
	if err != nil {
		return nil, err
	}
	root := t.Root()
	md := zenodo.Metadata{
		Creators:        creators,
		Contributors:    contributors,
		Title:           firstText(sel, root, TitlePath+"/gco:CharacterString"),
		Description:     firstText(sel, root, AbstractPath+"/gco:CharacterString"),
		PublicationDate: firstText(sel, root, PublicationDatePath+"//gco:Date"),
		Version:         firstText(sel, root, EditionPath+"/gco:CharacterString"),
		DOI:             NormalizeDOI(firstText(sel, root, FileIdentifierPath+"/gco:CharacterString")),
		UploadType:      "dataset",
	}
	if md.Title == "" {
		return nil, ErrSkipNoTitle
	}
	keywords, err := sel.Locate(root, GCMDKeywordPath+"/gco:CharacterString")
	if err != nil {
		return nil, err
	}
	for _, k := range keywords {
		if s := strings.TrimSpace(k.Text()); s != "" {
			md.Keywords = append(md.Keywords, s)
		}
	}
	return &zenodo.Deposition{Metadata: md}, nil
}

func personFrom(sel *tree.Selector, el *etree.Element) zenodo.Person {
	return zenodo.Person{
		Name:        LastFirst(firstText(sel, el, project.NamePath)),
		Affiliation: firstText(sel, el, project.OrganizationPath),
	}
}

func roleCode(sel *tree.Selector, el *etree.Element) string {
	code, err := sel.LocateFirst(el, project.RolePath)
	if err != nil {
		return ""
	}
	return code.SelectAttrValue("codeListValue", "")
}

// firstText returns the trimmed text at path, or "" if nothing matches.
func firstText(sel *tree.Selector, el *etree.Element, path string) string {
	found, err := sel.LocateFirst(el, path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}
