// Package youtube is a minimal YouTube Data API v3 client covering what the
// niche features need: channel search plus channel statistics.
//
// The client is optional. Without an API key the niche feed runs on AI data
// alone, so construction never fails on a missing key; Enabled reports
// whether calls will do anything.
package youtube
