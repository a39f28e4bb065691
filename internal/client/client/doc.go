// Package client talks to the interntrack primary API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the profile, search and
// session layers. HTTPClient implements it over JSON/HTTP with bearer
// authentication and maps transport failures onto the sentinel errors in
// package common:
//
//   - common.ErrNotConfigured: no base URL was configured
//   - common.ErrUnavailable:   network failure or a 5xx/unexpected status
//   - common.ErrUnauthorized:  401/403
//   - common.ErrNotFound:      404
//
// Callers treat all of these as transient and fall back to the backing store.
package client
