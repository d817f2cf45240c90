// Package linguaclient builds clients for the language-learning backend.
//
// NewRequestClient returns the low-level lingua.RequestClient; New wraps it in
// a lingua.Client exposing typed resource clients (videos, profile, practice
// sessions and phrases) that all share one token provider.
//
// Quick start
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
//
//	  // Defaults: http://localhost:8080, /v1/api, 30s timeout.
//	  cli := linguaclient.New(lingua.Config{}, linguaclient.WithAccessToken("eyJhbGciOi..."))
//
//	  videos, err := cli.Videos().List(ctx, &lingua.ListParams{Language: "es"})
//	  if err != nil { log.Fatal(err) }
//	  _ = videos
//
//	  // Or straight from LINGUA_BACKEND_URL, LINGUA_TIMEOUT, LINGUA_TOKEN, ...
//	  cli, err = linguaclient.NewFromEnvironment()
//	  if err != nil { log.Fatal(err) }
//	}
//
// Authentication
//
// Tokens come from a lingua.TokenProvider. Besides WithTokenProvider, the
// package offers WithAccessToken, WithClientCredentials and WithPassword; the
// OAuth2 variants cache the token until it expires.
//
// The provider can also be attached later, e.g. after the user signs in:
//
//	cli.Requests().SetTokenProvider(provider)
package linguaclient
