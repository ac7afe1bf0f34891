// Package httpx holds the small HTTP plumbing every handler shares: the JSON
// response envelope, request decoding, typed API errors, and the identity
// middleware that trusts the gateway-injected user header.
package httpx
