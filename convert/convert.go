// Package convert holds the dialects: field tables, role vocabularies and the
// normalisation of upstream JSON documents into logical records.
package convert

import (
	"errors"
	"regexp"
	"strings"

	"github.com/miku/isokit/fields"
	"github.com/miku/isokit/source"
	"github.com/miku/isokit/templates"
	"github.com/miku/isokit/tree"
)

// Skip marks a document that cannot become a record at all.
type Skip struct {
	err error
}

func (s Skip) Error() string {
	return s.err.Error()
}

var (
	ErrSkipNoTitle = Skip{err: errors.New("no title")}
	ErrSkipNoDOI   = Skip{err: errors.New("no doi")}
)

// Dialect is a source format together with its field tables and default
// template.
type Dialect struct {
	Name     string
	Template string
	Tables   fields.Tables
}

var (
	DSET     = Dialect{Name: "dset", Template: templates.ISO19139, Tables: DSETTables}
	DataCite = Dialect{Name: "datacite", Template: templates.DataCite, Tables: DataCiteTables}
	Zenodo   = Dialect{Name: "zenodo", Template: templates.DataCite, Tables: DataCiteTables}
)

// Converter renders logical records as ISO 19139 documents. Every call
// parses its own template, a Converter is safe for concurrent use.
type Converter struct {
	Store       templates.Store
	Template    string
	Transformer *fields.Transformer
	id          string
}

// New returns a converter for a dialect, using the dialect's default template.
func New(d Dialect, store templates.Store, opts ...fields.Option) *Converter {
	sel := tree.NewSelector(tree.ISONamespaces())
	return &Converter{
		Store:       store,
		Template:    d.Template,
		Transformer: fields.New(sel, d.Tables, opts...),
		id:          d.Tables.ID,
	}
}

// ID returns the identifier of a record, e.g. for output filenames.
func (c *Converter) ID(rec source.Record) string {
	return rec.Text(c.id)
}

// Convert projects rec onto a fresh copy of the template.
func (c *Converter) Convert(rec source.Record) ([]byte, error) {
	t, err := c.Document(rec)
	if err != nil {
		return nil, err
	}
	return t.Bytes()
}

// ConvertBytes decodes a JSON record and converts it. The decoded record is
// returned for callers that need its identifier; a record error carries raw.
func (c *Converter) ConvertBytes(raw []byte) (source.Record, []byte, error) {
	rec, err := source.DecodeBytes(raw)
	if err != nil {
		return nil, nil, err
	}
	b, err := c.Convert(rec)
	if err != nil {
		return rec, nil, fields.WithRaw(err, raw)
	}
	return rec, b, nil
}

// Document is like Convert, but returns the tree.
func (c *Converter) Document(rec source.Record) (*tree.Tree, error) {
	t, err := c.Store.Load(c.Template)
	if err != nil {
		return nil, err
	}
	if err := c.Transformer.Transform(t, rec); err != nil {
		return nil, err
	}
	return t, nil
}

var whitespace = regexp.MustCompile(`\s+`)

func cleanTitle(title string) string {
	if title == "" {
		return ""
	}
	title = whitespace.ReplaceAllString(strings.TrimSpace(title), " ")
	for _, prefix := range []string{"Title:", "TITLE:"} {
		if strings.HasPrefix(title, prefix) {
			title = strings.TrimSpace(strings.TrimPrefix(title, prefix))
		}
	}
	return title
}

// party builds a party record, leaving out empty members so that selective
// fills keep the template content for them.
func party(name, organization, email, role string) source.Record {
	r := source.Record{}
	for _, kv := range [][2]string{
		{"name", name},
		{"organization", organization},
		{"email", email},
		{"role", role},
	} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			r[kv[0]] = v
		}
	}
	return r
}

// appendNonEmpty appends the trimmed values that are not empty.
func appendNonEmpty(list []any, values ...string) []any {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list
}
