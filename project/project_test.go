package project

import (
	"fmt"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"

	"github.com/miku/isokit/source"
	"github.com/miku/isokit/tree"
)

const ns = `xmlns:gmd="http://www.isotc211.org/2005/gmd" xmlns:gco="http://www.isotc211.org/2005/gco"`

const keywordsTemplate = `<gmd:MD_DataIdentification ` + ns + `>
  <gmd:abstract><gco:CharacterString/></gmd:abstract>
  <gmd:descriptiveKeywords>
    <gmd:MD_Keywords>
      <gmd:keyword><gco:CharacterString/></gmd:keyword>
      <gmd:thesaurusName><gmd:CI_Citation><gmd:title><gco:CharacterString>GCMD</gco:CharacterString></gmd:title></gmd:CI_Citation></gmd:thesaurusName>
    </gmd:MD_Keywords>
  </gmd:descriptiveKeywords>
  <gmd:topicCategory><gmd:MD_TopicCategoryCode/></gmd:topicCategory>
</gmd:MD_DataIdentification>`

const keywordPath = "/gmd:MD_DataIdentification/gmd:descriptiveKeywords/gmd:MD_Keywords/gmd:keyword"

var keywordRule = PruneRule{
	Wrappers: []string{"gmd:MD_Keywords", "gmd:descriptiveKeywords"},
	Scaffold: []string{"gmd:thesaurusName", "gmd:type"},
}

func texts(t *testing.T, sel *tree.Selector, root *etree.Element, path string) []string {
	t.Helper()
	result, err := sel.Locate(root, path)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, el := range result {
		out = append(out, strings.TrimSpace(tree.TextOf(el)))
	}
	return out
}

func TestCardinality(t *testing.T) {
	sel := tree.NewSelector(tree.ISONamespaces())
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			tr, err := tree.ParseString(keywordsTemplate)
			if err != nil {
				t.Fatal(err)
			}
			slot, err := Cut(sel, tr.Root(), keywordPath)
			if err != nil {
				t.Fatal(err)
			}
			var want []string
			for i := 0; i < n; i++ {
				value := fmt.Sprintf("kw%d", i)
				want = append(want, value)
				err := slot.Insert(func(el *etree.Element) error {
					target, err := sel.LocateFirst(el, "gco:CharacterString")
					if err != nil {
						return err
					}
					tree.WriteOrMarkMissing(target, value, false)
					return nil
				})
				if err != nil {
					t.Fatal(err)
				}
			}
			removed := slot.Release(sel, keywordRule)
			got := texts(t, sel, tr.Root(), keywordPath)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("keywords (-want +got):\n%s", diff)
			}
			kw := texts(t, sel, tr.Root(), "gmd:descriptiveKeywords")
			switch n {
			case 0:
				if len(kw) != 0 || len(removed) != 2 {
					t.Errorf("wrappers not pruned: %d left, %d removed", len(kw), len(removed))
				}
			default:
				if len(kw) != 1 || removed != nil {
					t.Errorf("wrapper count = %d, removed %d", len(kw), len(removed))
				}
				// clones sit between the thesaurus-less siblings, before thesaurusName
				children := tr.Root().FindElement("gmd:descriptiveKeywords/gmd:MD_Keywords").ChildElements()
				if last := children[len(children)-1]; last.Tag != "thesaurusName" {
					t.Errorf("clone order broken, last child %s", last.Tag)
				}
			}
			for _, path := range []string{"gmd:abstract", "gmd:topicCategory"} {
				if len(texts(t, sel, tr.Root(), path)) != 1 {
					t.Errorf("sibling %s lost", path)
				}
			}
		})
	}
}

const extentTemplate = `<gmd:extent ` + ns + `>
  <gmd:EX_Extent>
    <gmd:geographicElement>
      <gmd:EX_GeographicBoundingBox><gmd:westBoundLongitude><gco:Decimal/></gmd:westBoundLongitude></gmd:EX_GeographicBoundingBox>
    </gmd:geographicElement>
    <gmd:temporalElement>
      <gmd:EX_TemporalExtent/>
    </gmd:temporalElement>
  </gmd:EX_Extent>
</gmd:extent>`

var extentRule = PruneRule{Wrappers: []string{"gmd:EX_Extent", "gmd:extent"}}

func TestReleaseKeepsUnrelatedSibling(t *testing.T) {
	sel := tree.NewSelector(tree.ISONamespaces())
	doc := etree.NewDocument()
	if err := doc.ReadFromString(`<gmd:MD_DataIdentification ` + ns + `>` + extentTemplate + `</gmd:MD_DataIdentification>`); err != nil {
		t.Fatal(err)
	}
	root := doc.Root()
	geo, err := Cut(sel, root, "//gmd:EX_Extent/gmd:geographicElement")
	if err != nil {
		t.Fatal(err)
	}
	if removed := geo.Release(sel, extentRule); len(removed) != 0 {
		t.Fatalf("removed %d wrappers although temporalElement remains", len(removed))
	}
	if len(texts(t, sel, root, "gmd:extent/gmd:EX_Extent/gmd:temporalElement")) != 1 {
		t.Fatal("temporal element lost")
	}
	if len(texts(t, sel, root, "//gmd:geographicElement")) != 0 {
		t.Fatal("geographic element not removed")
	}
	temporal, err := Cut(sel, root, "//gmd:EX_Extent/gmd:temporalElement")
	if err != nil {
		t.Fatal(err)
	}
	if removed := temporal.Release(sel, extentRule); len(removed) != 2 {
		t.Fatalf("removed %d wrappers, want 2", len(removed))
	}
	if len(root.ChildElements()) != 0 {
		t.Fatalf("extent not pruned")
	}
}

const partyTemplate = `<gmd:citedResponsibleParty ` + ns + `>
  <gmd:CI_ResponsibleParty>
    <gmd:individualName><gco:CharacterString>Default Name</gco:CharacterString></gmd:individualName>
    <gmd:organisationName><gco:CharacterString>Default Org</gco:CharacterString></gmd:organisationName>
    <gmd:positionName><gco:CharacterString/></gmd:positionName>
    <gmd:contactInfo><gmd:CI_Contact><gmd:address><gmd:CI_Address><gmd:electronicMailAddress><gco:CharacterString>help@example.org</gco:CharacterString></gmd:electronicMailAddress></gmd:CI_Address></gmd:address></gmd:CI_Contact></gmd:contactInfo>
    <gmd:role><gmd:CI_RoleCode codeList="x" codeListValue="pointOfContact">pointOfContact</gmd:CI_RoleCode></gmd:role>
  </gmd:CI_ResponsibleParty>
</gmd:citedResponsibleParty>`

func partyDoc(t *testing.T) (*tree.Tree, *Slot, *tree.Selector) {
	t.Helper()
	sel := tree.NewSelector(tree.ISONamespaces())
	tr, err := tree.ParseString(`<gmd:CI_Citation ` + ns + `>` + partyTemplate + `</gmd:CI_Citation>`)
	if err != nil {
		t.Fatal(err)
	}
	slot, err := Cut(sel, tr.Root(), "gmd:citedResponsibleParty")
	if err != nil {
		t.Fatal(err)
	}
	return tr, slot, sel
}

func partyTexts(t *testing.T, sel *tree.Selector, el *etree.Element) []string {
	t.Helper()
	var out []string
	for _, path := range []string{NamePath, OrganizationPath, PositionPath, EmailPath, RolePath} {
		out = append(out, texts(t, sel, el, path)...)
	}
	return out
}

func TestProjectSelectiveKeepsDefaults(t *testing.T) {
	tr, slot, sel := partyDoc(t)
	if err := ProjectSelective(sel, slot, source.Party{Email: source.Some("")}, ""); err != nil {
		t.Fatal(err)
	}
	clone := tr.Root().ChildElements()[0]
	want := []string{"Default Name", "Default Org", "", "help@example.org", "pointOfContact"}
	if diff := cmp.Diff(want, partyTexts(t, sel, clone)); diff != "" {
		t.Errorf("selective fill changed defaults (-want +got):\n%s", diff)
	}
	if len(texts(t, sel, clone, ".//*[@gco:nilReason='missing']")) != 0 {
		t.Error("selective fill wrote a missing marker")
	}
}

func TestProjectRequiredWritesEverything(t *testing.T) {
	tr, slot, sel := partyDoc(t)
	if err := ProjectRequired(sel, slot, source.Party{}, ""); err != nil {
		t.Fatal(err)
	}
	clone := tr.Root().ChildElements()[0]
	if diff := cmp.Diff([]string{"", "", "", "", ""}, partyTexts(t, sel, clone)); diff != "" {
		t.Errorf("required fill (-want +got):\n%s", diff)
	}
	if got := len(texts(t, sel, clone, ".//*[@gco:nilReason='missing']")); got != 5 {
		t.Errorf("got %d missing markers, want 5", got)
	}
	role, err := sel.LocateFirst(clone, RolePath)
	if err != nil {
		t.Fatal(err)
	}
	if attr := role.SelectAttr("codeListValue"); attr == nil || attr.Value != "" {
		t.Errorf("codeListValue = %v", attr)
	}
}

func TestProjectImpliedRole(t *testing.T) {
	tr, slot, sel := partyDoc(t)
	p := source.Party{Name: source.Some("A. Researcher"), Role: source.Some("custodian")}
	if err := ProjectSelective(sel, slot, p, "author"); err != nil {
		t.Fatal(err)
	}
	if err := ProjectRequired(sel, slot, source.Party{Organization: source.Some("Example Org")}, "publisher"); err != nil {
		t.Fatal(err)
	}
	var roles []string
	for _, el := range tr.Root().ChildElements() {
		r, err := sel.LocateFirst(el, RolePath)
		if err != nil {
			t.Fatal(err)
		}
		roles = append(roles, r.SelectAttrValue("codeListValue", ""))
	}
	if diff := cmp.Diff([]string{"author", "publisher"}, roles); diff != "" {
		t.Errorf("roles (-want +got):\n%s", diff)
	}
}

const siblingsTemplate = `<gmd:MD_DataIdentification ` + ns + `>
  <gmd:pointOfContact><gco:CharacterString/></gmd:pointOfContact>
  <gmd:resourceFormat><gco:CharacterString/></gmd:resourceFormat>
  <gmd:language><gco:CharacterString>eng</gco:CharacterString></gmd:language>
  <gmd:topicCategory><gco:CharacterString/></gmd:topicCategory>
</gmd:MD_DataIdentification>`

func TestSetKeepsSlotOrder(t *testing.T) {
	sel := tree.NewSelector(tree.ISONamespaces())
	fill := func(text string) FillFunc {
		return func(el *etree.Element) error {
			el.ChildElements()[0].SetText(text)
			return nil
		}
	}
	compact := strings.NewReplacer("\n  ", "", "\n", "").Replace(siblingsTemplate)
	var orders = [][]string{
		{"gmd:topicCategory", "gmd:pointOfContact", "gmd:resourceFormat"},
		{"gmd:pointOfContact", "gmd:resourceFormat", "gmd:topicCategory"},
		{"gmd:resourceFormat", "gmd:topicCategory", "gmd:pointOfContact"},
		{"gmd:topicCategory", "gmd:resourceFormat", "gmd:pointOfContact"},
	}
	want := []string{
		"pointOfContact:gmd:pointOfContact-0",
		"pointOfContact:gmd:pointOfContact-1",
		"resourceFormat:gmd:resourceFormat-0",
		"resourceFormat:gmd:resourceFormat-1",
		"language:eng",
		"topicCategory:gmd:topicCategory-0",
		"topicCategory:gmd:topicCategory-1",
	}
	for _, template := range []string{siblingsTemplate, compact} {
		for _, interleave := range []bool{false, true} {
			for _, order := range orders {
				tr, err := tree.ParseString(template)
				if err != nil {
					t.Fatal(err)
				}
				set := NewSet(sel, tr.Root())
				var slots []*Slot
				for _, name := range order {
					s, err := set.Cut("/gmd:MD_DataIdentification/" + name)
					if err != nil {
						t.Fatal(err)
					}
					slots = append(slots, s)
				}
				insert := func(i, k int) {
					if err := slots[i].Insert(fill(fmt.Sprintf("%s-%d", order[i], k))); err != nil {
						t.Fatal(err)
					}
				}
				if interleave {
					for k := 0; k < 2; k++ {
						for i := range slots {
							insert(i, k)
						}
					}
				} else {
					for i := range slots {
						insert(i, 0)
						insert(i, 1)
					}
				}
				var got []string
				for _, el := range tr.Root().ChildElements() {
					got = append(got, el.Tag+":"+tree.TextOf(el))
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("compact=%v interleave=%v cut order %v (-want +got):\n%s",
						template == compact, interleave, order, diff)
				}
			}
		}
	}
}
