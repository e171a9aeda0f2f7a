package gateways

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/ochairo/addrunner/internal/domain/entities"
	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

// ChecksumVerifier implements SHA-256 verification using pure Go
type ChecksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
func NewChecksumVerifier() *ChecksumVerifier {
	return &ChecksumVerifier{}
}

// Digest calculates the lowercase hex SHA-256 of a file.
// Pure Go implementation - no external shasum binary needed.
func (v *ChecksumVerifier) Digest(filePath string) (string, error) {
	//nolint:gosec // G304: File path is the archive being verified
	f, err := os.Open(filePath)
	if err != nil {
		return "", derrors.Filesystem("open", filePath, err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", derrors.Filesystem("read", filePath, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify compares the file digest with expectedHex byte for byte.
// A mismatch is reported through the result; only read failures are errors.
func (v *ChecksumVerifier) Verify(filePath, expectedHex string) (entities.VerifyResult, error) {
	actual, err := v.Digest(filePath)
	if err != nil {
		return entities.VerifyResult{}, err
	}

	return entities.VerifyResult{
		OK:          actual == expectedHex,
		ActualHex:   actual,
		ExpectedHex: expectedHex,
	}, nil
}
