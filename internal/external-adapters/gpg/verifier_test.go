package gpg

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

var catalogDoc = []byte("release: \"2.317.0\"\nentries: []\n")

func catalogSigner(t *testing.T) *openpgp.Entity {
	t.Helper()
	signer, err := openpgp.NewEntity("Runner Catalog", "", "catalog@example.com", nil)
	require.NoError(t, err)
	return signer
}

func exportKey(t *testing.T, signer *openpgp.Entity, armored bool) string {
	t.Helper()
	var buf bytes.Buffer
	if armored {
		w, err := armor.Encode(&buf, "PGP PUBLIC KEY BLOCK", nil)
		require.NoError(t, err)
		require.NoError(t, signer.Serialize(w))
		require.NoError(t, w.Close())
	} else {
		require.NoError(t, signer.Serialize(&buf))
	}

	path := filepath.Join(t.TempDir(), "catalog-key")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func sign(t *testing.T, signer *openpgp.Entity, data []byte, armored bool) []byte {
	t.Helper()
	var sig bytes.Buffer
	if armored {
		require.NoError(t, openpgp.ArmoredDetachSign(&sig, signer, bytes.NewReader(data), nil))
	} else {
		require.NoError(t, openpgp.DetachSign(&sig, signer, bytes.NewReader(data), nil))
	}
	return sig.Bytes()
}

func TestNewVerifierFromFile(t *testing.T) {
	signer := catalogSigner(t)

	for _, armored := range []bool{true, false} {
		v, err := NewVerifierFromFile(exportKey(t, signer, armored))
		require.NoError(t, err, "armored=%v", armored)
		assert.Len(t, v.keys, 1)
	}
}

func TestNewVerifierFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewVerifierFromFile(filepath.Join(dir, "missing.asc"))
	assert.True(t, derrors.IsCode(err, derrors.ErrFilesystem), "got %v", err)

	junk := filepath.Join(dir, "junk.asc")
	require.NoError(t, os.WriteFile(junk, []byte("not a key"), 0600))
	_, err = NewVerifierFromFile(junk)
	assert.True(t, derrors.IsCode(err, derrors.ErrConfig), "got %v", err)
}

func TestVerifier_Verify(t *testing.T) {
	signer := catalogSigner(t)
	v, err := NewVerifierFromFile(exportKey(t, signer, true))
	require.NoError(t, err)

	tests := []struct {
		name      string
		data      []byte
		signature []byte
		wantErr   bool
	}{
		{"armored", catalogDoc, sign(t, signer, catalogDoc, true), false},
		{"binary", catalogDoc, sign(t, signer, catalogDoc, false), false},
		{"edited catalog", append(append([]byte{}, catalogDoc...), '#'), sign(t, signer, catalogDoc, true), true},
		{"foreign signer", catalogDoc, sign(t, catalogSigner(t), catalogDoc, true), true},
		{"garbage signature", catalogDoc, []byte("garbage"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.data, tt.signature)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, derrors.IsCode(err, derrors.ErrSignature), "got %v", err)
		})
	}
}
