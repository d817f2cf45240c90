// Package lingua provides the types and interfaces for talking to the
// language-learning backend.
//
// # Overview
//
// The central piece is RequestClient: it builds versioned URLs, merges default
// and per-request headers, injects bearer tokens from a TokenProvider, enforces
// a per-request timeout and turns every failure into a *RequestError with a
// distinguishable ErrorKind. The concrete implementation is constructed by the
// linguaclient package.
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/lingua/pkg/lingua"
//	  "github.com/fivetwenty-io/lingua/pkg/linguaclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  requests := linguaclient.NewRequestClient(lingua.Config{BaseURL: "http://localhost:8080"})
//	  requests.SetTokenProvider(lingua.TokenProviderFunc(func(ctx context.Context) (string, error) {
//	    return loadToken(), nil
//	  }))
//
//	  resp, err := requests.Get(ctx, "videos", lingua.NewQuery("page", 1), lingua.WithAuth())
//	  if err != nil { log.Fatal(err) }
//	  _ = resp.Data
//	}
//
// # Deriving clients
//
// Configuration is immutable. WithVersion, WithHeaders and Clone return new
// clients that start with the parent's token provider. Calling
// SetTokenProvider afterwards affects only the client it is called on:
//
//	v2 := requests.WithVersion("/v2/api")
//	traced := requests.WithHeaders(map[string]string{"X-Client": "web"})
//
// # Errors
//
// Every failure is a *RequestError. Use errors.Is with ErrAuthenticationRequired,
// ErrTimeout, ErrHTTP, ErrTransport or ErrUnknown, or the IsTimeout / IsNotFound
// helpers:
//
//	if lingua.IsNotFound(err) { /* show empty state */ }
package lingua
