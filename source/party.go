package source

// Opt is an optional text value.
type Opt struct {
	Value   string
	Present bool
}

// Some returns a present value.
func Some(s string) Opt {
	return Opt{Value: s, Present: true}
}

// Filled reports whether the value is present and not empty.
func (o Opt) Filled() bool {
	return o.Present && o.Value != ""
}

// Party describes a person or organisation with a role. Sub-fields are
// independently optional.
type Party struct {
	Name         Opt
	Organization Opt
	Position     Opt
	Email        Opt
	Role         Opt
}

// Keys used for party objects in source records.
const (
	KeyName         = "name"
	KeyOrganization = "organization"
	KeyPosition     = "position"
	KeyEmail        = "email"
	KeyRole         = "role"
)

// PartyFrom reads a party from an object value. A bare string is taken as the
// name.
func PartyFrom(v Value) Party {
	if r, ok := v.Record(); ok {
		return PartyFromRecord(r)
	}
	var p Party
	if s, ok := v.Text(); ok {
		p.Name = Some(s)
	}
	return p
}

// PartyFromRecord reads the party keys of r.
func PartyFromRecord(r Record) Party {
	opt := func(key string) Opt {
		v, ok := r.Lookup(key)
		if !ok {
			return Opt{}
		}
		return Some(v.String())
	}
	return Party{
		Name:         opt(KeyName),
		Organization: opt(KeyOrganization),
		Position:     opt(KeyPosition),
		Email:        opt(KeyEmail),
		Role:         opt(KeyRole),
	}
}

// WithRole returns a copy of p with the role replaced.
func (p Party) WithRole(role string) Party {
	p.Role = Some(role)
	return p
}

// Record converts a party back into an object, leaving out absent fields.
func (p Party) Record() Record {
	r := make(Record)
	for k, o := range map[string]Opt{
		KeyName:         p.Name,
		KeyOrganization: p.Organization,
		KeyPosition:     p.Position,
		KeyEmail:        p.Email,
		KeyRole:         p.Role,
	} {
		if o.Present {
			r[k] = o.Value
		}
	}
	return r
}
