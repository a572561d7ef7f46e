// Package binexpr builds deferred expressions over binary (byte-string)
// columns and evaluates them locally, over Arrow Flight, or in DuckDB.
//
// The package itself wires the Flight evaluation service into a gRPC
// server. The building blocks live in sub-packages:
//   - expr: immutable expression trees and the Bin namespace
//   - eval: evaluation of expressions over Arrow record batches
//   - plan: msgpack + zstd serialization of expression lists
//   - sqlgen: DuckDB SQL rendering for pushdown
//   - geo: WKB geometry columns and header expressions
//   - flight: the DoExchange service and its client
//   - auth: bearer token authentication
//
// # Quick Start
//
//	grpcServer := grpc.NewServer()
//	srv, err := binexpr.NewServer(grpcServer, binexpr.ServerConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	lis, _ := net.Listen("tcp", ":50051")
//	go grpcServer.Serve(lis)
//
//	conn, _ := grpc.NewClient("localhost:50051",
//	    grpc.WithTransportCredentials(insecure.NewCredentials()))
//	client, _ := flight.NewClient(conn, flight.ClientOptions{})
//	defer client.Close()
//
//	out, err := client.Evaluate(ctx, []expr.Expr{
//	    expr.Col("payload").Bin().StartsWith(expr.Lit([]byte{0x01})).Alias("le"),
//	    expr.Col("payload").Bin().SizeBytes(),
//	}, batch)
//
// # Authentication
//
// Pass an Authenticator in ServerConfig.Auth and create the gRPC server
// with ServerOptions. Clients attach their token with WithToken:
//
//	config := binexpr.ServerConfig{Auth: binexpr.StaticTokens(tokens)}
//	grpcServer := grpc.NewServer(binexpr.ServerOptions(config)...)
//	srv, _ := binexpr.NewServer(grpcServer, config)
//	defer srv.Close()
//
//	conn, _ := grpc.NewClient(addr,
//	    grpc.WithTransportCredentials(insecure.NewCredentials()),
//	    binexpr.WithToken("secret", true))
//
// # Binary Encoding
//
// Hex and base64 encode/decode and from_buffer are compiled in by default.
// Build with -tags nobinaryencoding to leave them out of every package.
package binexpr
