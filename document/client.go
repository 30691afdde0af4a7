package document

import (
	"context"
	"fmt"

	"github.com/codenotary/immudb/pkg/api/protomodel"
	"github.com/samber/lo"
	"google.golang.org/grpc"

	"github.com/dmitrijs2005/immuclient/common"
	"github.com/dmitrijs2005/immuclient/internal/logging"
	"github.com/dmitrijs2005/immuclient/value"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 50
)

// RPC is the subset of protomodel.DocumentServiceClient used by Client.
type RPC interface {
	CreateCollection(ctx context.Context, in *protomodel.CreateCollectionRequest, opts ...grpc.CallOption) (*protomodel.CreateCollectionResponse, error)
	GetCollections(ctx context.Context, in *protomodel.GetCollectionsRequest, opts ...grpc.CallOption) (*protomodel.GetCollectionsResponse, error)
	DeleteCollection(ctx context.Context, in *protomodel.DeleteCollectionRequest, opts ...grpc.CallOption) (*protomodel.DeleteCollectionResponse, error)
	InsertDocuments(ctx context.Context, in *protomodel.InsertDocumentsRequest, opts ...grpc.CallOption) (*protomodel.InsertDocumentsResponse, error)
	SearchDocuments(ctx context.Context, in *protomodel.SearchDocumentsRequest, opts ...grpc.CallOption) (*protomodel.SearchDocumentsResponse, error)
}

type Client struct {
	rpc RPC
	log logging.Logger
}

func New(rpc RPC, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{rpc: rpc, log: logger.With("module", "document")}
}

func (c *Client) ListCollections(ctx context.Context) ([]*protomodel.Collection, error) {
	resp, err := c.rpc.GetCollections(ctx, &protomodel.GetCollectionsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", common.MapRPCError(err))
	}
	return resp.GetCollections(), nil
}

func (c *Client) CreateCollection(ctx context.Context, spec CollectionSpec) error {
	req, err := spec.Request()
	if err != nil {
		return err
	}
	if _, err := c.rpc.CreateCollection(ctx, req); err != nil {
		return fmt.Errorf("create collection %s: %w", spec.Name, common.MapRPCError(err))
	}
	c.log.Info(ctx, "collection created", "collection", spec.Name, "fields", len(req.GetFields()), "indexes", len(req.GetIndexes()))
	return nil
}

func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if _, err := c.rpc.DeleteCollection(ctx, &protomodel.DeleteCollectionRequest{Name: name}); err != nil {
		return fmt.Errorf("delete collection %s: %w", name, common.MapRPCError(err))
	}
	c.log.Info(ctx, "collection deleted", "collection", name)
	return nil
}

type InsertResult struct {
	TransactionID uint64
	DocumentIDs   []string
}

// InsertDocuments stores docs in one server transaction. Numbers are sent
// as doubles.
func (c *Client) InsertDocuments(ctx context.Context, collection string, docs []value.Document) (*InsertResult, error) {
	req := &protomodel.InsertDocumentsRequest{CollectionName: collection}
	for i, d := range docs {
		s, err := value.ToStruct(d)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		req.Documents = append(req.Documents, s)
	}

	resp, err := c.rpc.InsertDocuments(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", collection, common.MapRPCError(err))
	}
	return &InsertResult{TransactionID: resp.GetTransactionId(), DocumentIDs: resp.GetDocumentIds()}, nil
}

// SearchOptions controls paging. A non-empty SearchID continues an open
// server-side search and always keeps it open.
type SearchOptions struct {
	SearchID string
	Page     uint32
	PageSize uint32
	KeepOpen bool
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Page == 0 {
		o.Page = DefaultPage
	}
	if o.PageSize == 0 {
		o.PageSize = DefaultPageSize
	}
	if o.SearchID != "" {
		o.KeepOpen = true
	}
	return o
}

type Revision struct {
	TransactionID uint64
	DocumentID    string
	Revision      uint64
	Document      value.Document
}

type SearchResult struct {
	SearchID  string
	Revisions []Revision
}

func (c *Client) Search(ctx context.Context, q *protomodel.Query, opts SearchOptions) (*SearchResult, error) {
	if q == nil || q.GetCollectionName() == "" {
		return nil, fmt.Errorf("%w: search needs a query with a collection name", common.ErrInvalidInput)
	}
	opts = opts.withDefaults()

	resp, err := c.rpc.SearchDocuments(ctx, &protomodel.SearchDocumentsRequest{
		SearchId: opts.SearchID,
		Query:    q,
		Page:     opts.Page,
		PageSize: opts.PageSize,
		KeepOpen: opts.KeepOpen,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.GetCollectionName(), common.MapRPCError(err))
	}

	return &SearchResult{
		SearchID: resp.GetSearchId(),
		Revisions: lo.Map(resp.GetRevisions(), func(r *protomodel.DocumentAtRevision, _ int) Revision {
			return Revision{
				TransactionID: r.GetTransactionId(),
				DocumentID:    r.GetDocumentId(),
				Revision:      r.GetRevision(),
				Document:      value.FromStruct(r.GetDocument()),
			}
		}),
	}, nil
}

// SearchJSON parses a JSON query and runs it.
func (c *Client) SearchJSON(ctx context.Context, rawQuery []byte, opts SearchOptions) (*SearchResult, error) {
	q, err := ParseQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	return c.Search(ctx, q, opts)
}
