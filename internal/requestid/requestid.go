// Package requestid propagates a per-request identifier from gRPC metadata
// into the context, for correlating log lines of one exchange.
package requestid

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// Header is the gRPC metadata key carrying the request ID.
const Header = "x-request-id"

type key struct{}

// With returns a new context with the request ID stored.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, key{}, id)
}

// FromContext retrieves the request ID if present.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(key{}).(string)
	return id, ok
}

// FromIncoming stores the request ID found in incoming gRPC metadata, or a
// freshly generated one when the client sent none.
func FromIncoming(ctx context.Context) (context.Context, string) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(Header); len(ids) > 0 {
			id = ids[0]
		}
	}
	if id == "" {
		id = New()
	}
	return With(ctx, id), id
}

// AppendToOutgoing attaches the context's request ID to outgoing gRPC
// metadata, generating one if the context has none.
func AppendToOutgoing(ctx context.Context) (context.Context, string) {
	id, ok := FromContext(ctx)
	if !ok {
		id = New()
		ctx = With(ctx, id)
	}
	return metadata.AppendToOutgoingContext(ctx, Header, id), id
}

// New returns a random UUID string.
func New() string {
	return uuid.NewString()
}
