// Package entities defines core domain models and data structures.
package entities

// Artifact represents a runner archive fetched to local disk
type Artifact struct {
	Key      PlatformKey
	Entry    CatalogEntry
	Path     string // local file the archive was written to
	Size     int64  // bytes written by the fetch
	Verified bool   // set only after the digest matched the catalog
}

// VerifyResult is the outcome of comparing a file digest against an expected value.
// A mismatch is a normal result, not an error.
type VerifyResult struct {
	OK          bool
	ActualHex   string
	ExpectedHex string
}
