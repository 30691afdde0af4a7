package value

import "github.com/codenotary/immudb/pkg/api/schema"

// Params is an ordered list of bound statement parameters. Names are the
// placeholder identifiers without the '@' sigil. Duplicate names are not
// detected here.
type Params []*schema.NamedParam

// Named binds v under name. Use it with a statement such as
// "INSERT INTO users(id, name) VALUES (@id, @name)".
func Named[T Scalar](name string, v T) *schema.NamedParam {
	return &schema.NamedParam{Name: name, Value: Encode(v)}
}

// NamedNull binds an explicit NULL under name.
func NamedNull(name string) *schema.NamedParam {
	return &schema.NamedParam{Name: name, Value: Null()}
}

func NewParams(ps ...*schema.NamedParam) Params {
	return append(Params(nil), ps...)
}

// With returns p extended by ps.
func (p Params) With(ps ...*schema.NamedParam) Params {
	return append(p, ps...)
}

// Values returns the bound wire values in declaration order.
func (p Params) Values() []*schema.SQLValue {
	out := make([]*schema.SQLValue, 0, len(p))
	for _, np := range p {
		out = append(out, np.GetValue())
	}
	return out
}

// Names returns the parameter names in declaration order.
func (p Params) Names() []string {
	out := make([]string, 0, len(p))
	for _, np := range p {
		out = append(out, np.GetName())
	}
	return out
}
