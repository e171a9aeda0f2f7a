// Package minisign verifies minisign signatures.
package minisign

import (
	"errors"

	"github.com/jedisct1/go-minisign"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

// Verifier checks minisign signatures against one public key
type Verifier struct {
	publicKey minisign.PublicKey
}

// NewVerifierFromFile loads a minisign public key file
func NewVerifierFromFile(pubKeyPath string) (*Verifier, error) {
	pubKey, err := minisign.NewPublicKeyFromFile(pubKeyPath)
	if err != nil {
		return nil, derrors.Wrapf(err, derrors.ErrConfig, "read minisign pubkey %s", pubKeyPath)
	}
	return &Verifier{publicKey: pubKey}, nil
}

// Verify checks the content of a .minisig file against data
func (v *Verifier) Verify(data, signature []byte) error {
	sig, err := minisign.DecodeSignature(string(signature))
	if err != nil {
		return derrors.Wrap(err, derrors.ErrSignature, "malformed minisign signature")
	}

	valid, err := v.publicKey.Verify(data, sig)
	if err != nil {
		return derrors.Wrap(err, derrors.ErrSignature, "minisign signature rejected")
	}
	if !valid {
		return derrors.Wrap(errors.New("invalid signature"), derrors.ErrSignature, "minisign signature rejected")
	}
	return nil
}
