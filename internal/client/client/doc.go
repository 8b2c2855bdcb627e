// Package client contains the client-side building blocks for tweeter.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     account operations (Signup, Signin, Logout, Refresh), user lookup and
//     tweet CRUD.
//  2. A gRPC implementation (see GRPCClient) that owns the connection and
//     the current token pair. A unary interceptor injects the access token
//     and, when the server answers Unauthenticated with "token expired",
//     refreshes the pair once and retries the call.
//
// # Error Handling
//
// gRPC statuses are mapped onto sentinel errors that callers match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotLoggedIn, and the shared
// common.ErrorConflict, common.ErrorNotFound and common.ErrorValidation.
//
// GRPCClient is safe for concurrent use. All operations honor context
// cancellation.
package client
