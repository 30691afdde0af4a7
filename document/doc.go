// Package document is a thin client for the immudb document service:
// collection management, document insertion and search.
//
// Collections can be described in Go with CollectionSpec or loaded from a
// JSON schema with ParseCollectionSchema. Searches take a protomodel.Query,
// usually built from the JSON query language accepted by ParseQuery:
//
//	{
//	  "collection_name": "users",
//	  "limit": 50,
//	  "order_by": [{"field": "group_id", "desc": true}],
//	  "where": {"AND": [
//	    {"field": "group_id", "op": "EQ", "value": "a"},
//	    {"field": "is_active", "op": "eq", "value": true}
//	  ]}
//	}
package document
