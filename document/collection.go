package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codenotary/immudb/pkg/api/protomodel"

	"github.com/dmitrijs2005/immuclient/common"
)

type Field struct {
	Name    string
	Type    protomodel.FieldType
	Unique  bool
	Indexed bool
}

// CollectionSpec describes a collection to create. An empty
// DocumentIDField lets the server pick its default id field.
type CollectionSpec struct {
	Name            string
	DocumentIDField string
	Fields          []Field
}

// Request converts the spec into the wire request. Every unique or
// indexed field gets a single-field index.
func (c CollectionSpec) Request() (*protomodel.CreateCollectionRequest, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("%w: collection name is empty", common.ErrInvalidInput)
	}

	req := &protomodel.CreateCollectionRequest{
		Name:                c.Name,
		DocumentIdFieldName: c.DocumentIDField,
	}
	for _, f := range c.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: collection %s has a field without a name", common.ErrInvalidInput, c.Name)
		}
		req.Fields = append(req.Fields, &protomodel.Field{Name: f.Name, Type: f.Type})
		if f.Unique || f.Indexed {
			req.Indexes = append(req.Indexes, &protomodel.Index{Fields: []string{f.Name}, IsUnique: f.Unique})
		}
	}
	return req, nil
}

// ParseFieldType maps a case-insensitive type name onto the wire enum.
func ParseFieldType(s string) (protomodel.FieldType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STRING", "STR":
		return protomodel.FieldType_STRING, nil
	case "BOOLEAN", "BOOL":
		return protomodel.FieldType_BOOLEAN, nil
	case "INTEGER", "INT":
		return protomodel.FieldType_INTEGER, nil
	case "DOUBLE", "FLOAT":
		return protomodel.FieldType_DOUBLE, nil
	case "UUID":
		return protomodel.FieldType_UUID, nil
	}
	return 0, fmt.Errorf("%w: unknown field type %q", common.ErrInvalidInput, s)
}

type schemaDoc struct {
	Name                *string           `json:"name"`
	DocumentIDFieldName *string           `json:"document_id_field_name"`
	Fields              *[]schemaFieldDoc `json:"fields"`
}

type schemaFieldDoc struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed"`
	Unique  bool   `json:"unique"`
}

// ParseCollectionSchema reads a JSON collection schema:
//
//	{"name": "users", "document_id_field_name": "id",
//	 "fields": [{"name": "id", "type": "STRING"},
//	            {"name": "email", "type": "str", "indexed": true, "unique": true}]}
//
// The document id field, when listed, is always indexed and unique.
func ParseCollectionSchema(raw []byte) (CollectionSpec, error) {
	var doc schemaDoc
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return CollectionSpec{}, fmt.Errorf("%w: collection schema: %w", common.ErrInvalidInput, err)
	}

	switch {
	case doc.Name == nil:
		return CollectionSpec{}, fmt.Errorf("%w: collection schema: missing 'name'", common.ErrInvalidInput)
	case doc.DocumentIDFieldName == nil:
		return CollectionSpec{}, fmt.Errorf("%w: collection schema: missing 'document_id_field_name'", common.ErrInvalidInput)
	case doc.Fields == nil:
		return CollectionSpec{}, fmt.Errorf("%w: collection schema: missing 'fields'", common.ErrInvalidInput)
	}

	spec := CollectionSpec{Name: *doc.Name, DocumentIDField: *doc.DocumentIDFieldName}
	for i, fd := range *doc.Fields {
		if fd.Name == "" {
			return CollectionSpec{}, fmt.Errorf("%w: collection schema: field %d has no name", common.ErrInvalidInput, i)
		}
		if fd.Type == "" {
			return CollectionSpec{}, fmt.Errorf("%w: collection schema: field %s has no type", common.ErrInvalidInput, fd.Name)
		}
		ft, err := ParseFieldType(fd.Type)
		if err != nil {
			return CollectionSpec{}, err
		}
		isID := fd.Name == spec.DocumentIDField
		spec.Fields = append(spec.Fields, Field{
			Name:    fd.Name,
			Type:    ft,
			Indexed: fd.Indexed || isID,
			Unique:  fd.Unique || isID,
		})
	}
	return spec, nil
}
