// Package client talks to the survey results API over gRPC.
//
// GRPCClient attaches the access token to every call through a unary
// interceptor and maps gRPC status codes to the sentinel errors of this
// package (ErrUnauthorized, ErrUnavailable), so callers can use errors.Is.
package client
