// Package flight serves expression evaluation over Arrow Flight DoExchange
// and provides the matching client.
//
// # Protocol
//
// The client opens a DoExchange stream. Its first message carries a
// FlightDescriptor of type CMD whose Cmd is a plan (package plan) together
// with the input schema. Every following message is an input record batch.
// The server answers with the output schema, derived from the input schema
// and the plan, followed by one output batch per input batch. Output
// columns follow the plan order and are named after expr.OutputName.
//
// Errors map to gRPC status codes: malformed plans and data errors are
// InvalidArgument, canceled requests Canceled, anything else Internal.
package flight

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/binexpr/eval"
	"github.com/hugr-lab/binexpr/plan"
)

// Options configures a Server.
type Options struct {
	// Allocator for Arrow memory management.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger
}

// Server implements the Flight service handlers.
// Embeds BaseFlightServer so every RPC except DoExchange reports
// Unimplemented.
type Server struct {
	flight.BaseFlightServer

	codec     *plan.Codec
	evaluator *eval.Evaluator
	allocator memory.Allocator
	logger    *slog.Logger
}

// NewServer creates a Flight evaluation server.
// Caller must call Close() when the server is no longer serving.
func NewServer(opts Options) (*Server, error) {
	allocator := opts.Allocator
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := plan.NewCodec()
	if err != nil {
		return nil, err
	}

	return &Server{
		codec:     codec,
		evaluator: eval.New(eval.Options{Allocator: allocator, Logger: logger}),
		allocator: allocator,
		logger:    logger,
	}, nil
}

// Close releases the plan codec.
func (s *Server) Close() error {
	return s.codec.Close()
}

// RegisterFlightServer registers the Flight service on the provided gRPC server.
// This follows the standard gRPC service registration pattern.
func RegisterFlightServer(grpcServer *grpc.Server, flightServer *Server) {
	flight.RegisterFlightServiceServer(grpcServer, flightServer)
}
