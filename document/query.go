package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codenotary/immudb/pkg/api/protomodel"

	"github.com/dmitrijs2005/immuclient/common"
	"github.com/dmitrijs2005/immuclient/value"
)

const DefaultQueryLimit = 100

var operators = map[string]protomodel.ComparisonOperator{
	"EQ": protomodel.ComparisonOperator_EQ,
	"NE": protomodel.ComparisonOperator_NE,
	"GT": protomodel.ComparisonOperator_GT,
	"GE": protomodel.ComparisonOperator_GE,
	"LT": protomodel.ComparisonOperator_LT,
	"LE": protomodel.ComparisonOperator_LE,
}

type queryDoc struct {
	CollectionName *string                    `json:"collection_name"`
	Limit          *uint32                    `json:"limit"`
	OrderBy        []orderDoc                 `json:"order_by"`
	Where          map[string]json.RawMessage `json:"where"`
}

type orderDoc struct {
	Field *string `json:"field"`
	Desc  bool    `json:"desc"`
}

type comparisonDoc struct {
	Field *string         `json:"field"`
	Op    *string         `json:"op"`
	Value json.RawMessage `json:"value"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: query: %s", common.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ParseQuery builds a search query from its JSON form. Only a flat
// conjunction under where.AND is supported; every entry becomes one
// expression. Any other key under "where" is rejected.
func ParseQuery(raw []byte) (*protomodel.Query, error) {
	var doc queryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, invalid("%v", err)
	}
	if doc.CollectionName == nil || *doc.CollectionName == "" {
		return nil, invalid("missing 'collection_name'")
	}

	q := &protomodel.Query{CollectionName: *doc.CollectionName, Limit: DefaultQueryLimit}
	if doc.Limit != nil {
		q.Limit = *doc.Limit
	}

	for i, ob := range doc.OrderBy {
		if ob.Field == nil || *ob.Field == "" {
			return nil, invalid("order_by[%d]: missing 'field'", i)
		}
		q.OrderBy = append(q.OrderBy, &protomodel.OrderByClause{Field: *ob.Field, Desc: ob.Desc})
	}

	for key, rawAnd := range doc.Where {
		if key != "AND" {
			return nil, invalid("unsupported where clause %q, only AND is supported", key)
		}
		var items []comparisonDoc
		if err := json.Unmarshal(rawAnd, &items); err != nil {
			return nil, invalid("where.AND: %v", err)
		}
		// comparisons within one expression are ANDed, separate expressions are ORed
		conj := &protomodel.QueryExpression{}
		for i, item := range items {
			cmp, err := item.comparison()
			if err != nil {
				return nil, fmt.Errorf("where.AND[%d]: %w", i, err)
			}
			conj.FieldComparisons = append(conj.FieldComparisons, cmp)
		}
		if len(conj.FieldComparisons) > 0 {
			q.Expressions = append(q.Expressions, conj)
		}
	}

	return q, nil
}

func (c comparisonDoc) comparison() (*protomodel.FieldComparison, error) {
	if c.Field == nil || *c.Field == "" {
		return nil, invalid("missing 'field'")
	}
	if c.Op == nil {
		return nil, invalid("missing 'op'")
	}
	op, ok := operators[strings.ToUpper(*c.Op)]
	if !ok {
		return nil, invalid("unknown comparison operator %q", *c.Op)
	}
	if c.Value == nil {
		return nil, invalid("missing 'value'")
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(c.Value))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, invalid("value: %v", err)
	}
	pv, err := value.ToProtoValue(v)
	if err != nil {
		return nil, err
	}

	return &protomodel.FieldComparison{Field: *c.Field, Operator: op, Value: pv}, nil
}
