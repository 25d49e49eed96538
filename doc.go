// Package gohris provides the client-side session and data-access layer for
// an HRIS deployment: SOAP admin authentication, a hashed-credential demo
// store, a bearer-token REST client with 401 recovery, and Mongo-export
// record normalization.
//
// The package is designed for concurrent client workloads: Manager methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// gohris is the public surface. It exposes [Manager], [Builder], [Config],
// and value types (Session, LoginResult, MetricsSnapshot, etc.). Backend
// transports live in soap/ and rest/, persistence in storage/, record
// shaping in normalize/, and role gating in role/. Audit dispatch lives
// under internal/ and is never exported directly.
//
// # What this package must NOT do
//
//   - Expose raw HTTP clients, storage encodings, or SOAP envelopes in its
//     public API.
//   - Verify token signatures locally — the client holds no keys; only the
//     backends judge a token.
//   - Import any sub-package that re-imports gohris (no import cycles).
//
// # Session namespaces
//
// SOAP sessions persist under soap_api_token / soap_api_user; mock and
// REST sessions persist under hris_mock_token / hris_mock_user (plus
// hris_refresh_token). Logout sweeps both namespaces unconditionally.
package gohris
