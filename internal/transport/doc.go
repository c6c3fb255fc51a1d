// Package transport provides the HTTP request helpers shared by all resource
// clients: JSON encoding, api-key header injection, fixed-count retries,
// optional gzip request compression and client-side rate limiting. It is
// internal to the SDK; end users interact with the resource packages.
package transport
