package value

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/codenotary/immudb/pkg/api/schema"

	"github.com/dmitrijs2005/immuclient/common"
)

// Document is a generic JSON-compatible mapping from column or field name
// to value.
type Document map[string]any

// Keys returns the document keys in ascending order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode maps the document onto dst (a pointer) using its json tags.
func (d Document) Decode(dst any) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrDecode, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %w", common.ErrDecode, err)
	}
	return nil
}

// RowDocument builds a Document from one result row. Labels come from the
// row itself when present, otherwise from fallback (the result-level
// column list). Missing labels are synthesized as col1, col2, ... and every
// label is passed through NormalizeColumn. When two labels normalize to
// the same key the later column wins.
func RowDocument(labels []string, values []*schema.SQLValue, fallback []string) (Document, error) {
	names := labels
	if len(names) == 0 {
		names = fallback
	}

	doc := make(Document, len(values))
	for i, v := range values {
		raw := SyntheticColumn(i + 1)
		if i < len(names) {
			raw = names[i]
		}
		key := NormalizeColumn(raw)
		if key == "" {
			return nil, fmt.Errorf("%w: malformed column label %q at position %d", common.ErrDecode, raw, i+1)
		}
		doc[key] = ToJSON(v)
	}
	return doc, nil
}
