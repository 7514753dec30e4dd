/*
Package shopsdk provides a client SDK for the MarketLoft storefront API.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: unauthenticated operations (catalog browsing, register,
    login) and the entry point for creating authenticated sessions
  - Session: authenticated operations with transparent token refresh

Create an SDKClient for public endpoints and to authenticate:

	client := shopsdk.NewSDKClient("https://shop.example.com")

	products, err := client.ListProducts(ctx)

	session, err := client.Login(ctx, "user@example.com", "password")

A Session attaches the access token to every request and recovers from
expiry automatically: on a 401 it refreshes the access token exactly
once and replays the original request. If the refresh itself fails the
session logs out locally and surfaces the original authentication
failure. A 403 is an authorization failure, not an authentication one,
and never triggers refresh or logout.

# Token persistence

Sessions keep an in-memory mirror of the token pair and write every
change through a TokenStore. NewMemoryStore is the default; SQLiteStore
persists tokens across process restarts. When some other process may
write the same store, StartReconcile polls it and folds external
changes (logout elsewhere, refreshed tokens) into the live session.
*/
package shopsdk
