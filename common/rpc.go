package common

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapRPCError classifies an error returned by a gRPC stub. The original
// error stays in the chain, so status.Code keeps working on the result.
func MapRPCError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	switch st.Code() {
	case codes.Unavailable:
		return fmt.Errorf("%w: %w", ErrTransport, err)
	default:
		return fmt.Errorf("%w: %w", ErrProtocol, err)
	}
}
