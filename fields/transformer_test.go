package fields

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"

	"github.com/miku/isokit/project"
	"github.com/miku/isokit/source"
	"github.com/miku/isokit/tree"
)

const minimal = `<?xml version="1.0" encoding="UTF-8"?>
<gmd:MD_Metadata xmlns:gmd="http://www.isotc211.org/2005/gmd" xmlns:gco="http://www.isotc211.org/2005/gco" xmlns:gml="http://www.opengis.net/gml">
  <gmd:dateStamp><gco:DateTime/></gmd:dateStamp>
  <gmd:identificationInfo>
    <gmd:MD_DataIdentification>
      <gmd:citation>
        <gmd:CI_Citation>
          <gmd:title><gco:CharacterString/></gmd:title>
          <gmd:citedResponsibleParty>
            <gmd:CI_ResponsibleParty>
              <gmd:individualName><gco:CharacterString/></gmd:individualName>
              <gmd:organisationName><gco:CharacterString/></gmd:organisationName>
              <gmd:positionName><gco:CharacterString/></gmd:positionName>
              <gmd:contactInfo><gmd:CI_Contact><gmd:address><gmd:CI_Address><gmd:electronicMailAddress><gco:CharacterString/></gmd:electronicMailAddress></gmd:CI_Address></gmd:address></gmd:CI_Contact></gmd:contactInfo>
              <gmd:role><gmd:CI_RoleCode codeList="http://www.isotc211.org/2005/resources/Codelist/gmxCodelists.xml#CI_RoleCode" codeListValue=""/></gmd:role>
            </gmd:CI_ResponsibleParty>
          </gmd:citedResponsibleParty>
        </gmd:CI_Citation>
      </gmd:citation>
      <gmd:status><gmd:MD_ProgressCode codeList="http://www.isotc211.org/2005/resources/Codelist/gmxCodelists.xml#MD_ProgressCode" codeListValue="completed">completed</gmd:MD_ProgressCode></gmd:status>
      <gmd:descriptiveKeywords>
        <gmd:MD_Keywords>
          <gmd:keyword><gco:CharacterString/></gmd:keyword>
          <gmd:thesaurusName><gmd:CI_Citation><gmd:title><gco:CharacterString>GCMD Science Keywords</gco:CharacterString></gmd:title></gmd:CI_Citation></gmd:thesaurusName>
        </gmd:MD_Keywords>
      </gmd:descriptiveKeywords>
      <gmd:extent>
        <gmd:EX_Extent>
          <gmd:geographicElement>
            <gmd:EX_GeographicBoundingBox>
              <gmd:westBoundLongitude><gco:Decimal/></gmd:westBoundLongitude>
              <gmd:eastBoundLongitude><gco:Decimal/></gmd:eastBoundLongitude>
              <gmd:southBoundLatitude><gco:Decimal/></gmd:southBoundLatitude>
              <gmd:northBoundLatitude><gco:Decimal/></gmd:northBoundLatitude>
            </gmd:EX_GeographicBoundingBox>
          </gmd:geographicElement>
          <gmd:temporalElement>
            <gmd:EX_TemporalExtent>
              <gmd:extent>
                <gml:TimePeriod gml:id="t1"><gml:beginPosition/><gml:endPosition/></gml:TimePeriod>
              </gmd:extent>
            </gmd:EX_TemporalExtent>
          </gmd:temporalElement>
        </gmd:EX_Extent>
      </gmd:extent>
    </gmd:MD_DataIdentification>
  </gmd:identificationInfo>
</gmd:MD_Metadata>
`

const (
	ident   = "/gmd:MD_Metadata/gmd:identificationInfo/gmd:MD_DataIdentification"
	cited   = ident + "/gmd:citation/gmd:CI_Citation/gmd:citedResponsibleParty"
	keyword = ident + "/gmd:descriptiveKeywords/gmd:MD_Keywords[contains(gmd:thesaurusName//gco:CharacterString, 'GCMD')]/gmd:keyword"
	extent  = ident + "/gmd:extent/gmd:EX_Extent"
)

var extentPrune = project.PruneRule{Wrappers: []string{"gmd:EX_Extent", "gmd:extent"}}

var testTables = Tables{
	ID: "title",
	Required: []Field{
		{Name: "date", Path: "/gmd:MD_Metadata/gmd:dateStamp/gco:DateTime", Default: func(t time.Time) any {
			return t.Format("2006-01-02T15:04:05")
		}},
		{Name: "title", Path: ident + "/gmd:citation/gmd:CI_Citation/gmd:title", Write: Text("gco:CharacterString")},
		{Name: "author", Path: cited, Card: Repeatable, Party: true, Role: "author", Policy: project.OverwriteIfPresent},
		{Name: "publisher", Path: cited, Party: true, Role: "publisher", Policy: project.OverwriteIfPresent},
		{Name: "progress", Path: ident + "/gmd:status/gmd:MD_ProgressCode", CodeList: true, Policy: project.OverwriteIfPresent, KeepDefault: true},
	},
	Recommended: []Field{
		{Name: "subject", Path: keyword, Card: Repeatable, Write: Keyword("gco:CharacterString"), Prune: project.PruneRule{
			Wrappers: []string{"gmd:MD_Keywords", "gmd:descriptiveKeywords"},
			Scaffold: []string{"gmd:thesaurusName"},
		}},
		{Name: "contributor", Path: cited, Card: Repeatable, Party: true, Policy: project.OverwriteIfPresent},
		{Name: "geolocation", Path: extent + "/gmd:geographicElement", Card: OptionalGroup, Write: BoundingBox(), Prune: extentPrune},
		{Name: "temporal_coverage", Path: extent + "/gmd:temporalElement", Card: OptionalGroup, Write: TemporalExtent(), Prune: extentPrune},
	},
}

var fixedClock = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

func transform(t *testing.T, tables Tables, js string) (*tree.Tree, error) {
	t.Helper()
	rec, err := source.DecodeBytes([]byte(js))
	if err != nil {
		t.Fatal(err)
	}
	tr, err := tree.ParseString(minimal)
	if err != nil {
		t.Fatal(err)
	}
	tf := New(tree.NewSelector(tree.ISONamespaces()), tables, WithClock(fixedClock))
	return tr, tf.Transform(tr, rec)
}

func locateAll(t *testing.T, root *etree.Element, path string) []*etree.Element {
	t.Helper()
	result, err := tree.NewSelector(tree.ISONamespaces()).Locate(root, path)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestEndToEnd(t *testing.T) {
	tr, err := transform(t, testTables, `{
		"title": "Example Dataset",
		"author": [{"name": "A. Researcher"}],
		"publisher": {"organization": "Example Org"},
		"subject": ["OCEANOGRAPHY"]
	}`)
	if err != nil {
		t.Fatal(err)
	}
	root := tr.Root()
	titles := locateAll(t, root, ident+"/gmd:citation/gmd:CI_Citation/gmd:title/gco:CharacterString")
	if len(titles) != 1 || titles[0].Text() != "Example Dataset" {
		t.Fatalf("unexpected titles: %d", len(titles))
	}
	var roles []string
	for _, el := range locateAll(t, root, cited+"//gmd:CI_RoleCode") {
		roles = append(roles, el.SelectAttrValue("codeListValue", ""))
	}
	if diff := cmp.Diff([]string{"author", "publisher"}, roles); diff != "" {
		t.Errorf("cited contact roles (-want +got):\n%s", diff)
	}
	names := locateAll(t, root, cited+"//gmd:individualName/gco:CharacterString")
	if names[0].Text() != "A. Researcher" {
		t.Errorf("author name = %q", names[0].Text())
	}
	orgs := locateAll(t, root, cited+"//gmd:organisationName/gco:CharacterString")
	if orgs[1].Text() != "Example Org" {
		t.Errorf("publisher org = %q", orgs[1].Text())
	}
	keywords := locateAll(t, root, keyword)
	if len(keywords) != 1 {
		t.Fatalf("got %d keywords", len(keywords))
	}
	if got := strings.TrimSpace(tree.TextOf(keywords[0])); got != "OCEANOGRAPHY" {
		t.Errorf("keyword = %q", got)
	}
	if tree.HasMissingMarker(keywords[0]) || len(locateAll(t, keywords[0], ".//*[@gco:nilReason='missing']")) > 0 {
		t.Error("keyword subtree carries a missing marker")
	}
	// absent optional groups prune the whole extent
	if got := locateAll(t, root, ident+"/gmd:extent"); len(got) != 0 {
		t.Errorf("extent not pruned")
	}
	if got := locateAll(t, root, "/gmd:MD_Metadata/gmd:dateStamp/gco:DateTime"); got[0].Text() != "2024-05-01T12:30:00" {
		t.Errorf("date stamp = %q", got[0].Text())
	}
	// selective code field keeps the template default
	progress := locateAll(t, root, ident+"/gmd:status/gmd:MD_ProgressCode")
	if len(progress) != 1 || progress[0].SelectAttrValue("codeListValue", "") != "completed" {
		t.Errorf("progress default lost")
	}
}

func TestKeyOrderIndependence(t *testing.T) {
	var docs = []string{
		`{"title": "T", "author": [{"name": "A", "email": "a@example.org"}], "publisher": {"organization": "P"}, "subject": ["X", "Y"], "geolocation": {"west": -105.5, "east": -104, "south": 39, "north": 41}}`,
		`{"geolocation": {"north": 41, "south": 39, "east": -104, "west": -105.5}, "subject": ["X", "Y"], "publisher": {"organization": "P"}, "author": [{"email": "a@example.org", "name": "A"}], "title": "T"}`,
	}
	var outputs [][]byte
	for _, js := range docs {
		tr, err := transform(t, testTables, js)
		if err != nil {
			t.Fatal(err)
		}
		b, err := tr.Bytes()
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, b)
	}
	if diff := cmp.Diff(string(outputs[0]), string(outputs[1])); diff != "" {
		t.Errorf("output depends on key order (-first +second):\n%s", diff)
	}
}

func TestRepeatableCardinality(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		var subjects []string
		for i := 0; i < n; i++ {
			subjects = append(subjects, fmt.Sprintf("%q", fmt.Sprintf("K%d", i)))
		}
		js := fmt.Sprintf(`{"title": "T", "author": ["A"], "publisher": {"organization": "P"}, "subject": [%s]}`,
			strings.Join(subjects, ","))
		tr, err := transform(t, testTables, js)
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, el := range locateAll(t, tr.Root(), ident+"//gmd:keyword/gco:CharacterString") {
			got = append(got, el.Text())
		}
		var want []string
		for i := 0; i < n; i++ {
			want = append(want, fmt.Sprintf("K%d", i))
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("n=%d (-want +got):\n%s", n, diff)
		}
		wrappers := locateAll(t, tr.Root(), ident+"/gmd:descriptiveKeywords")
		if (n == 0) != (len(wrappers) == 0) {
			t.Errorf("n=%d: %d keyword wrappers", n, len(wrappers))
		}
	}
}

func TestSharedSlotOrder(t *testing.T) {
	tr, err := transform(t, testTables, `{
		"title": "T",
		"author": [{"name": "A1"}, {"name": "A2"}],
		"publisher": {"organization": "P"},
		"contributor": [{"name": "C", "role": "custodian"}]
	}`)
	if err != nil {
		t.Fatal(err)
	}
	var roles []string
	for _, el := range locateAll(t, tr.Root(), cited+"//gmd:CI_RoleCode") {
		roles = append(roles, el.Text())
	}
	if diff := cmp.Diff([]string{"author", "author", "publisher", "custodian"}, roles); diff != "" {
		t.Errorf("roles (-want +got):\n%s", diff)
	}
}

func TestPruneKeepsSiblingGroup(t *testing.T) {
	tr, err := transform(t, testTables, `{
		"title": "T", "author": ["A"], "publisher": {"organization": "P"},
		"temporal_coverage": {"start": "2001-01-01", "end": "now"}
	}`)
	if err != nil {
		t.Fatal(err)
	}
	root := tr.Root()
	if got := locateAll(t, root, extent+"/gmd:geographicElement"); len(got) != 0 {
		t.Error("empty geographic element kept")
	}
	end := locateAll(t, root, extent+"/gmd:temporalElement//gml:endPosition")
	if len(end) != 1 {
		t.Fatal("temporal element lost")
	}
	if got := end[0].SelectAttrValue("indeterminatePosition", ""); got != "now" {
		t.Errorf("indeterminatePosition = %q", got)
	}
	begin := locateAll(t, root, extent+"/gmd:temporalElement//gml:beginPosition")
	if begin[0].Text() != "2001-01-01" || begin[0].SelectAttr("indeterminatePosition") != nil {
		t.Errorf("begin position wrong")
	}
}

func TestBoundingBoxMissingMember(t *testing.T) {
	tr, err := transform(t, testTables, `{
		"title": "T", "author": ["A"], "publisher": {"organization": "P"},
		"geolocation": {"west": -105.25, "east": 1e1, "north": 40.0}
	}`)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, el := range locateAll(t, tr.Root(), extent+"//gco:Decimal") {
		got = append(got, el.Text())
	}
	if diff := cmp.Diff([]string{"-105.25", "10", "", "40"}, got); diff != "" {
		t.Errorf("box (-want +got):\n%s", diff)
	}
	south := locateAll(t, tr.Root(), extent+"//gmd:southBoundLatitude")
	if !tree.HasMissingMarker(south[0]) {
		t.Error("south not marked missing")
	}
}

func TestRequiredFieldMissing(t *testing.T) {
	_, err := transform(t, testTables, `{"title": "T", "publisher": {"organization": "P"}}`)
	var re *RecordError
	if !errors.As(err, &re) {
		t.Fatalf("got %v, want RecordError", err)
	}
	if re.Field != "author" || re.ID != "T" {
		t.Errorf("unexpected error %+v", re)
	}
	_, err = transform(t, testTables, `{"title": "T", "author": [], "publisher": {"organization": "P"}}`)
	if !errors.As(err, &re) || re.Field != "author" {
		t.Errorf("empty author list: got %v", err)
	}
}

func TestRequiredEmptyValueIsMarked(t *testing.T) {
	tr, err := transform(t, testTables, `{"title": "", "author": ["A"], "publisher": {"organization": "P"}}`)
	if err != nil {
		t.Fatal(err)
	}
	title := locateAll(t, tr.Root(), ident+"/gmd:citation/gmd:CI_Citation/gmd:title")
	if len(title) != 1 || title[0].SelectAttrValue("gco:nilReason", "") != "missing" {
		t.Error("empty title not marked missing")
	}
}

func TestTemplateError(t *testing.T) {
	tables := Tables{Required: []Field{{Name: "abstract", Path: ident + "/gmd:abstract/gco:CharacterString"}}}
	_, err := transform(t, tables, `{"abstract": "x"}`)
	var te *TemplateError
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want TemplateError", err)
	}
	if !errors.Is(err, tree.ErrNotFound) {
		t.Errorf("error does not wrap ErrNotFound: %v", err)
	}
	if !IsTemplateError(fmt.Errorf("batch: %w", err)) {
		t.Errorf("wrapped template error not detected")
	}
	if IsTemplateError(&RecordError{Field: "title"}) {
		t.Errorf("record error reported as template error")
	}
	tables = Tables{Required: []Field{{Name: "title", Path: ident + "/gmd:citation/gmd:CI_Citation/gmd:title", Write: Text("foo:bar")}}}
	_, err = transform(t, tables, `{"title": "x"}`)
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want TemplateError for unknown prefix", err)
	}
}

func TestWithRaw(t *testing.T) {
	raw := []byte(`{"id": "x"}`)
	err := WithRaw(fmt.Errorf("convert: %w", &RecordError{ID: "x", Field: "title"}), raw)
	var re *RecordError
	if !errors.As(err, &re) || string(re.Raw) != string(raw) {
		t.Fatalf("raw not attached: %v", err)
	}
	_ = WithRaw(err, []byte("other"))
	if string(re.Raw) != string(raw) {
		t.Errorf("raw overwritten: %s", re.Raw)
	}
	we := &WriteError{Field: "f", Err: errors.New("bad")}
	if got := WithRaw(we, raw); got != error(we) {
		t.Errorf("got %v, want error unchanged", got)
	}
	if WithRaw(nil, raw) != nil {
		t.Error("nil error changed")
	}
}
