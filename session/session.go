package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/codenotary/immudb/pkg/api/schema"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/dmitrijs2005/immuclient/common"
)

// Opener performs the session handshake.
type Opener interface {
	OpenSession(ctx context.Context, in *schema.OpenSessionRequest, opts ...grpc.CallOption) (*schema.OpenSessionResponse, error)
}

// DatabaseSelector switches the database bound to the session. It must be
// a client built on top of Wrap so the call carries the session metadata.
type DatabaseSelector interface {
	UseDatabase(ctx context.Context, in *schema.Database, opts ...grpc.CallOption) (*schema.UseDatabaseReply, error)
}

type Credentials struct {
	Username string
	Password string
	Database string
}

type Session struct {
	id         string
	serverUUID string

	mu    sync.RWMutex
	token string
}

// New builds a session from identifiers obtained elsewhere. Both must be
// valid metadata values.
func New(id, serverUUID string) (*Session, error) {
	if !common.IsASCIIToken(id) {
		return nil, fmt.Errorf("%w: session id is not a valid metadata value", common.ErrUnexpected)
	}
	if !common.IsASCIIToken(serverUUID) {
		return nil, fmt.Errorf("%w: server uuid is not a valid metadata value", common.ErrUnexpected)
	}
	return &Session{id: id, serverUUID: serverUUID}, nil
}

// Establish opens a session with the given credentials. The returned
// session carries no authorization token until SelectDatabase succeeds.
func Establish(ctx context.Context, o Opener, cred Credentials) (*Session, error) {
	req := &schema.OpenSessionRequest{
		Username:     []byte(cred.Username),
		Password:     []byte(cred.Password),
		DatabaseName: cred.Database,
	}
	defer common.WipeBytes(req.Password)

	resp, err := o.OpenSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", common.MapRPCError(err))
	}
	return New(resp.GetSessionID(), resp.GetServerUUID())
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) ServerUUID() string {
	return s.serverUUID
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the authorization token. An empty token removes the
// authorization header from later calls.
func (s *Session) SetToken(token string) error {
	if !common.IsASCIIToken(token) {
		return fmt.Errorf("%w: token is not a valid metadata value", common.ErrInvalidInput)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// SelectDatabase binds the session to name and stores the returned token.
func (s *Session) SelectDatabase(ctx context.Context, sel DatabaseSelector, name string) error {
	resp, err := sel.UseDatabase(ctx, &schema.Database{DatabaseName: name})
	if err != nil {
		return fmt.Errorf("use database %q: %w", name, common.MapRPCError(err))
	}
	return s.SetToken(resp.GetToken())
}

// Outgoing returns ctx with the session metadata merged into its outgoing
// metadata. Keys already present on ctx are kept unless they collide.
func (s *Session) Outgoing(ctx context.Context) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.SessionIDHeaderName, s.id)
	md.Set(common.ServerUUIDHeaderName, s.serverUUID)
	if tok := s.Token(); tok != "" {
		md.Set(common.AuthorizationHeaderName, tok)
	} else {
		md.Delete(common.AuthorizationHeaderName)
	}
	return metadata.NewOutgoingContext(ctx, md)
}
