// Package auth provides bearer-token authentication for the evaluation
// service: the Authenticator interface, ready-made authenticators and the
// gRPC interceptors that enforce them.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	// ErrInvalidAuthHeader is returned when the authorization header is malformed.
	ErrInvalidAuthHeader = errors.New("authorization header must use Bearer scheme")

	// ErrTokenIsEmpty is returned when the bearer token is missing.
	ErrTokenIsEmpty = errors.New("authorization token is empty")

	// ErrUnauthenticated is returned when authentication fails.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// HeaderAuthorization is the gRPC metadata key carrying the bearer token.
const HeaderAuthorization = "authorization"

const bearerPrefix = "Bearer "

// Authenticator validates bearer tokens and returns user identity.
// Implementations MUST be goroutine-safe.
type Authenticator interface {
	// Authenticate validates a bearer token and returns user identity.
	// Context allows timeout for auth backend calls.
	Authenticate(ctx context.Context, token string) (identity string, err error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, token string) (string, error)

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// BearerAuth creates an Authenticator from a validation function.
// This is the simplest way to add authentication.
//
// Example:
//
//	auth := BearerAuth(func(token string) (string, error) {
//	    user, err := validateWithMyBackend(token)
//	    if err != nil {
//	        return "", binexpr.ErrUnauthorized
//	    }
//	    return user.ID, nil
//	})
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return AuthenticatorFunc(func(_ context.Context, token string) (string, error) {
		return validateFunc(token)
	})
}

// StaticTokens returns an Authenticator backed by a fixed token to identity
// map. Tokens are compared in constant time.
func StaticTokens(tokens map[string]string) Authenticator {
	owned := make(map[string]string, len(tokens))
	for token, identity := range tokens {
		owned[token] = identity
	}
	return AuthenticatorFunc(func(_ context.Context, token string) (string, error) {
		for known, identity := range owned {
			if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
				return identity, nil
			}
		}
		return "", ErrUnauthenticated
	})
}

// NoAuth returns an Authenticator that allows all requests as "anonymous".
// Useful for development/testing. DO NOT use in production.
func NoAuth() Authenticator {
	return AuthenticatorFunc(func(context.Context, string) (string, error) {
		return "anonymous", nil
	})
}

// contextKey is a private type for context keys to avoid collisions.
type contextKey int

const identityKey contextKey = iota

// WithIdentity returns a new context with the given user identity.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the authenticated user identity from context.
// Returns empty string if no identity is set (unauthenticated request).
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}

// TokenFromAuthorizationHeader parses a "Bearer <token>" header value.
func TokenFromAuthorizationHeader(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return "", ErrTokenIsEmpty
	}
	return token, nil
}

// ExtractToken extracts the bearer token from incoming gRPC metadata.
// Errors carry the Unauthenticated status code.
func ExtractToken(ctx context.Context) (string, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get(HeaderAuthorization)
	if len(values) == 0 {
		return "", status.Error(codes.Unauthenticated, ErrTokenIsEmpty.Error())
	}
	token, err := TokenFromAuthorizationHeader(values[0])
	if err != nil {
		return "", status.Error(codes.Unauthenticated, err.Error())
	}
	return token, nil
}

// ValidateToken validates a bearer token using the provided Authenticator.
// Returns context with identity set, or error with the Unauthenticated
// status code.
func ValidateToken(ctx context.Context, token string, authenticator Authenticator) (context.Context, error) {
	if token == "" {
		return ctx, status.Error(codes.Unauthenticated, ErrTokenIsEmpty.Error())
	}
	identity, err := authenticator.Authenticate(ctx, token)
	if err != nil {
		return ctx, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
	}
	return WithIdentity(ctx, identity), nil
}
