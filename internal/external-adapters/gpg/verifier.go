// Package gpg checks OpenPGP detached signatures over catalog documents.
package gpg

import (
	"bytes"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

const armoredSignatureHeader = "-----BEGIN PGP SIGNATURE-----"

// Verifier trusts the keys of a single public key file
type Verifier struct {
	keys openpgp.EntityList
}

// NewVerifierFromFile loads an armored or binary OpenPGP public key file
func NewVerifierFromFile(keyPath string) (*Verifier, error) {
	//nolint:gosec // G304: keyPath is the operator-configured public key
	raw, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, derrors.Filesystem("read", keyPath, err)
	}

	keys, err := readKeys(raw)
	if err != nil {
		return nil, derrors.Wrapf(err, derrors.ErrConfig, "unreadable OpenPGP public key %s", keyPath)
	}
	if len(keys) == 0 {
		return nil, derrors.Newf(derrors.ErrConfig, "no OpenPGP public key in %s", keyPath)
	}
	return &Verifier{keys: keys}, nil
}

func readKeys(raw []byte) (openpgp.EntityList, error) {
	if keys, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(raw)); err == nil {
		return keys, nil
	}
	return openpgp.ReadKeyRing(bytes.NewReader(raw))
}

// Verify checks an armored or binary detached signature over data
func (v *Verifier) Verify(data, signature []byte) error {
	var err error
	if bytes.HasPrefix(bytes.TrimSpace(signature), []byte(armoredSignatureHeader)) {
		_, err = openpgp.CheckArmoredDetachedSignature(v.keys, bytes.NewReader(data), bytes.NewReader(signature), nil)
	} else {
		_, err = openpgp.CheckDetachedSignature(v.keys, bytes.NewReader(data), bytes.NewReader(signature), nil)
	}
	if err != nil {
		return derrors.Wrap(err, derrors.ErrSignature, "OpenPGP signature rejected")
	}
	return nil
}
