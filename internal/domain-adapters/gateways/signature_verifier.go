package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
	"github.com/ochairo/addrunner/internal/external-adapters/gpg"
	"github.com/ochairo/addrunner/internal/external-adapters/minisign"
	"github.com/ochairo/addrunner/internal/logging"
)

// SignatureFormat identifies a detached signature encoding
type SignatureFormat string

// Supported signature formats
const (
	FormatMinisign SignatureFormat = "minisign"
	FormatPGP      SignatureFormat = "pgp"
)

// DetectSignatureFormat picks the format from the signature file extension
func DetectSignatureFormat(signaturePath string) (SignatureFormat, error) {
	switch strings.ToLower(filepath.Ext(signaturePath)) {
	case ".minisig":
		return FormatMinisign, nil
	case ".asc", ".sig", ".gpg":
		return FormatPGP, nil
	default:
		return "", fmt.Errorf("unknown signature format for %s (want .minisig, .asc, .sig or .gpg)", filepath.Base(signaturePath))
	}
}

// SignatureVerifier authenticates catalog files against one trusted public key.
// The backend (minisign or OpenPGP) is chosen per signature file.
type SignatureVerifier struct {
	publicKeyPath string
	logger        zerolog.Logger
}

// NewSignatureVerifier creates a verifier trusting the key at publicKeyPath
func NewSignatureVerifier(publicKeyPath string) *SignatureVerifier {
	return &SignatureVerifier{
		publicKeyPath: publicKeyPath,
		logger:        logging.GetLogger("signature"),
	}
}

// Verify checks the detached signature at signaturePath over data.
// Callers pass the bytes they go on to use so nothing is re-read after the check.
func (s *SignatureVerifier) Verify(data []byte, signaturePath string) error {
	format, err := DetectSignatureFormat(signaturePath)
	if err != nil {
		return derrors.Wrap(err, derrors.ErrConfig, "unsupported catalog signature")
	}

	//nolint:gosec // G304: signaturePath is the operator-configured signature
	signature, err := os.ReadFile(signaturePath)
	if err != nil {
		return derrors.Filesystem("read", signaturePath, err)
	}

	s.logger.Debug().
		Str("signature", signaturePath).
		Str("format", string(format)).
		Int("bytes", len(data)).
		Msg("Verifying signature")

	switch format {
	case FormatMinisign:
		v, err := minisign.NewVerifierFromFile(s.publicKeyPath)
		if err != nil {
			return err
		}
		return v.Verify(data, signature)

	default:
		v, err := gpg.NewVerifierFromFile(s.publicKeyPath)
		if err != nil {
			return err
		}
		return v.Verify(data, signature)
	}
}
