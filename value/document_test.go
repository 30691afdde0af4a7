package value

import (
	"testing"

	"github.com/codenotary/immudb/pkg/api/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/immuclient/common"
)

func TestRowDocument_PrefersRowLabels(t *testing.T) {
	doc, err := RowDocument(
		[]string{"(users.id)", "(groups.name)"},
		[]*schema.SQLValue{Int(1), String("admins")},
		[]string{"ignored", "also_ignored"},
	)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(Document{"id": int64(1), "name": "admins"}, doc))
}

func TestRowDocument_FallsBackToResultLabels(t *testing.T) {
	doc, err := RowDocument(nil, []*schema.SQLValue{Int(1), Bytes([]byte{1, 2})}, []string{"id", "payload"})
	require.NoError(t, err)
	assert.Equal(t, Document{"id": int64(1), "payload": "AQI="}, doc)
}

func TestRowDocument_SynthesizesMissingLabels(t *testing.T) {
	doc, err := RowDocument(nil, []*schema.SQLValue{Int(1), Bool(true), Null()}, nil)
	require.NoError(t, err)
	assert.Equal(t, Document{"col1": int64(1), "col2": true, "col3": nil}, doc)

	doc, err = RowDocument([]string{"id"}, []*schema.SQLValue{Int(1), Int(2)}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"col2", "id"}, doc.Keys())
}

func TestRowDocument_MalformedLabel(t *testing.T) {
	_, err := RowDocument([]string{"( )"}, []*schema.SQLValue{Int(1)}, nil)
	require.ErrorIs(t, err, common.ErrDecode)
}

func TestDocument_Decode(t *testing.T) {
	type user struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Avatar []byte `json:"avatar"`
	}

	doc, err := RowDocument(nil, []*schema.SQLValue{Int(7), String("alice"), Bytes([]byte("png"))}, []string{"users.id", "users.name", "users.avatar"})
	require.NoError(t, err)

	var u user
	require.NoError(t, doc.Decode(&u))
	assert.Equal(t, user{ID: 7, Name: "alice", Avatar: []byte("png")}, u)

	var wrong struct {
		ID string `json:"id"`
	}
	require.ErrorIs(t, doc.Decode(&wrong), common.ErrDecode)
}
