// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

// Package gdms talks to the remote access point management platform.
//
// # Components
//
//   - TokenCache: shares one access token across all callers. Lookups try the
//     in-process slot, then the persisted slot (TokenStore), then perform a
//     client_credentials exchange. A token is considered usable only while
//     more than the skew window (60s by default) remains before expiry.
//   - Client: signed, paginated POST requests for the network and access point
//     listings, guarded by a circuit breaker and an optional rate limiter.
//   - Normalize: maps heterogeneous remote device records onto
//     models.RemoteDevice using ordered candidate key tables.
//
// # Request Signing
//
// For body B, timestamp T (ms since epoch), token A, app id P and secret S:
//
//	bodyHash  = hex(sha256(B))
//	signature = hex(sha256("&access_token=A&appID=P&secretKey=S&timestamp=T&" + bodyHash + "&"))
//
// The URL carries access_token, appID, timestamp and signature as query
// parameters and the body is sent as application/json.
//
// # Errors
//
// Token failures return *AuthError. Listing failures (transport, non-2xx,
// retCode other than "0", open circuit) return *APIError with the endpoint,
// status and a truncated body. Neither is retried here.
package gdms
