package gateways

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

func writeTestFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0600))
	return path
}

func TestChecksumVerifier_Digest_KnownValues(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{"empty file", []byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	verifier := NewChecksumVerifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Digest(writeTestFile(t, "data.bin", tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecksumVerifier_Digest_Deterministic(t *testing.T) {
	content := make([]byte, 3*1024*1024+17)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := writeTestFile(t, "large.bin", content)

	verifier := NewChecksumVerifier()
	first, err := verifier.Digest(path)
	require.NoError(t, err)
	second, err := verifier.Digest(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestChecksumVerifier_Verify(t *testing.T) {
	verifier := NewChecksumVerifier()
	content := []byte("runner archive bytes pinned by the catalog")
	path := writeTestFile(t, "runner.tar.gz", content)

	expected, err := verifier.Digest(path)
	require.NoError(t, err)

	t.Run("matching digest", func(t *testing.T) {
		res, err := verifier.Verify(path, expected)
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Equal(t, expected, res.ActualHex)
		assert.Equal(t, expected, res.ExpectedHex)
	})

	t.Run("one byte flipped", func(t *testing.T) {
		tampered := append([]byte{}, content...)
		tampered[0] ^= 0x01

		res, err := verifier.Verify(writeTestFile(t, "tampered.tar.gz", tampered), expected)
		require.NoError(t, err, "a mismatch is a result, not an error")
		assert.False(t, res.OK)
		assert.NotEqual(t, expected, res.ActualHex)
	})

	t.Run("uppercase expected digest is a mismatch", func(t *testing.T) {
		upper := strings.ToUpper(expected)
		require.NotEqual(t, expected, upper)

		res, err := verifier.Verify(path, upper)
		require.NoError(t, err)
		assert.False(t, res.OK)
	})
}

func TestChecksumVerifier_MissingFile(t *testing.T) {
	verifier := NewChecksumVerifier()

	_, err := verifier.Digest("/nonexistent/file.tar.gz")
	assert.True(t, derrors.IsCode(err, derrors.ErrFilesystem), "got %v", err)

	_, err = verifier.Verify("/nonexistent/file.tar.gz", "00")
	assert.True(t, derrors.IsCode(err, derrors.ErrFilesystem), "got %v", err)
}
