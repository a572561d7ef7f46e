package binexpr

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"google.golang.org/grpc"

	"github.com/hugr-lab/binexpr/auth"
	"github.com/hugr-lab/binexpr/flight"
)

// NewServer registers the expression evaluation service on the provided
// gRPC server.
//
// The function:
//  1. Validates the ServerConfig
//  2. Creates the Flight service implementation
//  3. Registers it on grpcServer
//
// Does NOT start the gRPC server - user controls lifecycle via grpcServer.Serve().
// The returned Closer releases the plan codec; call it after grpcServer has
// stopped.
//
// For authentication, use ServerOptions() to create a gRPC server with auth interceptors:
//
//	config := binexpr.ServerConfig{
//	    Auth: binexpr.BearerAuth(validateToken),
//	}
//	grpcServer := grpc.NewServer(binexpr.ServerOptions(config)...)
//	srv, err := binexpr.NewServer(grpcServer, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	lis, _ := net.Listen("tcp", ":50051")
//	grpcServer.Serve(lis)
func NewServer(grpcServer *grpc.Server, config ServerConfig) (io.Closer, error) {
	if err := validateConfig(grpcServer, config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := newLogger(config)

	flightServer, err := flight.NewServer(flight.Options{
		Allocator: config.Allocator,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	flight.RegisterFlightServer(grpcServer, flightServer)

	logger.Info("Expression Flight server registered",
		"has_auth", config.Auth != nil,
		"max_message_size", config.MaxMessageSize,
	)
	return flightServer, nil
}

// validateConfig checks that required ServerConfig fields are valid.
func validateConfig(grpcServer *grpc.Server, config ServerConfig) error {
	if grpcServer == nil {
		return fmt.Errorf("grpc server is required")
	}
	if config.MaxMessageSize < 0 {
		return fmt.Errorf("max message size must not be negative, got %d", config.MaxMessageSize)
	}
	return nil
}

// newLogger returns the configured logger, or a text logger at LogLevel.
func newLogger(config ServerConfig) *slog.Logger {
	if config.Logger != nil {
		return config.Logger
	}
	if config.LogLevel != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *config.LogLevel}))
	}
	return slog.Default()
}

// ServerOptions returns gRPC server options with authentication interceptors.
// Use this when creating a gRPC server if you want authentication enabled.
func ServerOptions(config ServerConfig) []grpc.ServerOption {
	var opts []grpc.ServerOption

	if config.Auth != nil {
		opts = append(opts,
			grpc.UnaryInterceptor(auth.UnaryServerInterceptor(config.Auth)),
			grpc.StreamInterceptor(auth.StreamServerInterceptor(config.Auth)),
		)
	}

	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}

	return opts
}
