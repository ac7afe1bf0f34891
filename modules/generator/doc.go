// Package generator exposes the content generation endpoints: video scripts,
// title candidates with CTR predictions, and thumbnail images. Every request
// passes the usage engine first, so a response is only produced when the
// user's plan has quota left for that feature.
package generator
