package fields

import (
	"errors"
	"time"

	"github.com/beevik/etree"
	log "github.com/sirupsen/logrus"

	"github.com/miku/isokit/project"
	"github.com/miku/isokit/source"
	"github.com/miku/isokit/tree"
)

// Transformer applies the field tables of a dialect to templates. It holds no
// per-record state and can be shared.
type Transformer struct {
	sel    *tree.Selector
	tables Tables
	now    func() time.Time
	log    log.FieldLogger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithClock sets the clock used for default values.
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) { t.now = now }
}

// WithLogger sets the logger.
func WithLogger(l log.FieldLogger) Option {
	return func(t *Transformer) { t.log = l }
}

// New returns a transformer for the given tables.
func New(sel *tree.Selector, tables Tables, opts ...Option) *Transformer {
	t := &Transformer{
		sel:    sel,
		tables: tables,
		now:    time.Now,
		log:    log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Selector returns the selector used for all paths.
func (t *Transformer) Selector() *tree.Selector { return t.sel }

// Transform writes rec into the template doc, tier by tier. The tree is
// modified in place; on error its content is undefined.
func (t *Transformer) Transform(doc *tree.Tree, rec source.Record) error {
	r := &run{
		Transformer: t,
		set:         project.NewSet(t.sel, doc.Root()),
		rules:       make(map[*project.Slot]project.PruneRule),
		now:         t.now(),
		id:          rec.Text(t.tables.ID),
	}
	for i, table := range t.tables.Tiers() {
		for k := range table {
			if err := r.apply(&table[k], Tier(i), rec); err != nil {
				return err
			}
		}
	}
	for _, s := range r.set.Slots() {
		if s.Inserted() > 0 {
			continue
		}
		removed := s.Release(t.sel, r.rules[s])
		t.log.WithFields(log.Fields{
			"record":   r.id,
			"path":     s.Path,
			"wrappers": len(removed),
		}).Debug("pruned unused placeholder")
	}
	return nil
}

type run struct {
	*Transformer
	set   *project.Set
	rules map[*project.Slot]project.PruneRule
	now   time.Time
	id    string
}

func (r *run) apply(f *Field, tier Tier, rec source.Record) error {
	v, ok := rec.Lookup(f.Name)
	if !ok && f.Default != nil {
		v, ok = source.ValueOf(f.Default(r.now)), true
	}
	values := r.values(f, tier, v, ok)
	slot, err := r.set.Cut(f.Path)
	if err != nil {
		return &TemplateError{Field: f.Name, Path: f.Path, Err: err}
	}
	if rule, seen := r.rules[slot]; !seen || len(rule.Wrappers) == 0 {
		r.rules[slot] = f.Prune
	}
	logger := r.log.WithFields(log.Fields{
		"record": r.id,
		"field":  f.Name,
		"tier":   tier,
	})
	if len(values) == 0 {
		switch {
		case f.KeepDefault:
			logger.Debug("keeping template default")
			return slot.Insert(nil)
		case tier == Required:
			return &RecordError{ID: r.id, Field: f.Name}
		}
		logger.Debug("field absent")
		return nil
	}
	for _, val := range values {
		if err := r.write(f, slot, val); err != nil {
			return wrapWriteError(f, err)
		}
	}
	logger.WithField("n", len(values)).Debug("projected field")
	return nil
}

// values returns the values to project. Optional tiers and selective fields
// drop empty values; non repeatable fields keep the first value.
func (r *run) values(f *Field, tier Tier, v source.Value, ok bool) []source.Value {
	if !ok {
		return nil
	}
	var (
		list   = v.List()
		result []source.Value
	)
	for _, e := range list {
		if (tier != Required || f.Policy == project.OverwriteIfPresent) && e.IsEmpty() {
			continue
		}
		result = append(result, e)
	}
	if f.Card != Repeatable && len(result) > 1 {
		r.log.WithFields(log.Fields{
			"record": r.id,
			"field":  f.Name,
			"n":      len(result),
		}).Debug("field is not repeatable, using first value")
		result = result[:1]
	}
	return result
}

func (r *run) write(f *Field, slot *project.Slot, v source.Value) error {
	if f.Party {
		p := source.PartyFrom(v)
		if f.Policy == project.OverwriteIfPresent {
			return project.ProjectSelective(r.sel, slot, p, f.Role)
		}
		return project.ProjectRequired(r.sel, slot, p, f.Role)
	}
	w := f.Write
	if w == nil {
		w = Text(".")
	}
	return slot.Insert(func(el *etree.Element) error {
		return w(r.sel, el, f, v)
	})
}

func wrapWriteError(f *Field, err error) error {
	var se *tree.SyntaxError
	if errors.Is(err, tree.ErrNotFound) || errors.As(err, &se) {
		return &TemplateError{Field: f.Name, Path: f.Path, Err: err}
	}
	return &WriteError{Field: f.Name, Err: err}
}
