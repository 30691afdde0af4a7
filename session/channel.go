package session

import (
	"context"

	"google.golang.org/grpc"
)

type channel struct {
	cc grpc.ClientConnInterface
	s  *Session
}

// Wrap returns a connection whose calls all carry the session metadata.
// The wrapper holds only references, so service clients built on it can
// be created freely and share the underlying transport.
func (s *Session) Wrap(cc grpc.ClientConnInterface) grpc.ClientConnInterface {
	return &channel{cc: cc, s: s}
}

func (c *channel) Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error {
	return c.cc.Invoke(c.s.Outgoing(ctx), method, args, reply, opts...)
}

func (c *channel) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return c.cc.NewStream(c.s.Outgoing(ctx), desc, method, opts...)
}
