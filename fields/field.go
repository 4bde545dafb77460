// Package fields describes how logical record fields map onto template
// locations and applies the required, recommended and optional tables of a
// dialect to a template.
package fields

import (
	"time"

	"github.com/beevik/etree"

	"github.com/miku/isokit/project"
	"github.com/miku/isokit/source"
	"github.com/miku/isokit/tree"
)

// Cardinality of a field.
type Cardinality int

const (
	// Single fields take one value; extra list elements are ignored.
	Single Cardinality = iota
	// Repeatable fields get one clone per value.
	Repeatable
	// OptionalSingle fields are removed from the output when absent.
	OptionalSingle
	// OptionalGroup fields hold a structured value, e.g. a bounding box.
	OptionalGroup
)

// Tier of a field table.
type Tier int

const (
	Required Tier = iota
	Recommended
	Optional
)

func (t Tier) String() string {
	switch t {
	case Required:
		return "required"
	case Recommended:
		return "recommended"
	case Optional:
		return "optional"
	default:
		return "unknown"
	}
}

// Writer fills a clone el with value v.
type Writer func(sel *tree.Selector, el *etree.Element, f *Field, v source.Value) error

// Field describes one logical field.
type Field struct {
	Name        string // key in the source record
	Path        string // absolute path of the placeholder
	Card        Cardinality
	Policy      project.Policy // OverwriteIfPresent skips empty values and absent party members
	CodeList    bool           // value also goes into codeListValue
	Party       bool           // value is a party, filled by the party projector
	Role        string         // implied role for party fields
	KeepDefault bool           // an absent field leaves one untouched placeholder copy
	Write       Writer         // defaults to Text(".")
	Prune       project.PruneRule
	Default     func(time.Time) any // value used when the field is absent
}

// Tables are the field lists of one dialect. Declared order is output order
// among fields sharing a placeholder.
type Tables struct {
	ID          string // record key used to identify records in errors
	Required    []Field
	Recommended []Field
	Optional    []Field
}

// Tiers returns the tables in processing order.
func (t Tables) Tiers() [][]Field {
	return [][]Field{t.Required, t.Recommended, t.Optional}
}
