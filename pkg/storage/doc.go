// Package storage archives generated thumbnails to S3 or an S3-compatible
// service. The upstream image host keeps URLs alive on a best-effort basis
// only, so paying users get a durable copy in our bucket.
//
// Archiving is optional: with no bucket configured the archiver is disabled
// and generation responses carry the upstream URL unchanged.
package storage
