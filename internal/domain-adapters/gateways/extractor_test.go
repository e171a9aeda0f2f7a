package gateways

import (
	"archive/tar"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

type tarEntry struct {
	name     string
	body     string
	mode     int64
	typeflag byte
	linkname string
}

func writeTarGz(t *testing.T, path string, entries []tarEntry) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		typeflag := e.typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}
		mode := e.mode
		if mode == 0 {
			mode = 0644
		}
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     mode,
			Size:     int64(len(e.body)),
			Typeflag: typeflag,
			Linkname: e.linkname,
		}
		if typeflag != tar.TypeReg {
			hdr.Size = 0
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
}

func TestTarGzExtractor_Extract(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "actions-runner-linux-x64-2.317.0.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "bin/", typeflag: tar.TypeDir, mode: 0755},
		{name: "config.sh", body: "#!/bin/bash\necho configure\n", mode: 0755},
		{name: "run.sh", body: "#!/bin/bash\necho run\n", mode: 0755},
		{name: "bin/Runner.Listener", body: "binary", mode: 0755},
		{name: "bin/listener", typeflag: tar.TypeSymlink, linkname: "Runner.Listener"},
	})

	dest := filepath.Join(dir, "runner")
	err := NewTarGzExtractor().Extract(context.Background(), archive, dest)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dest, "config.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "echo configure")

	info, err := os.Stat(filepath.Join(dest, "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0100, "executable bit must survive extraction")

	link, err := os.Readlink(filepath.Join(dest, "bin", "listener"))
	require.NoError(t, err)
	assert.Equal(t, "Runner.Listener", link)
}

func TestTarGzExtractor_PathTraversal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "../escape.txt", body: "pwned"},
	})

	dest := filepath.Join(dir, "runner")
	err := NewTarGzExtractor().Extract(context.Background(), archive, dest)
	require.Error(t, err)
	assert.True(t, derrors.IsCode(err, derrors.ErrArchive), "got %v", err)

	_, statErr := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr), "file escaped the extraction root")
}

func TestTarGzExtractor_HardLinkOutsideRoot(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "passwd", typeflag: tar.TypeLink, linkname: "../../etc/passwd"},
	})

	err := NewTarGzExtractor().Extract(context.Background(), archive, filepath.Join(dir, "runner"))
	assert.True(t, derrors.IsCode(err, derrors.ErrArchive), "got %v", err)
}

func TestTarGzExtractor_NotGzip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "broken.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("this is not gzip"), 0600))

	err := NewTarGzExtractor().Extract(context.Background(), archive, filepath.Join(dir, "runner"))
	assert.True(t, derrors.IsCode(err, derrors.ErrArchive), "got %v", err)
}

func TestTarGzExtractor_UnsupportedFormat(t *testing.T) {
	err := NewTarGzExtractor().Extract(context.Background(), "runner.zip", t.TempDir())
	assert.True(t, derrors.IsCode(err, derrors.ErrArchive), "got %v", err)
}

func TestTarGzExtractor_MissingArchive(t *testing.T) {
	err := NewTarGzExtractor().Extract(context.Background(), "/nonexistent/runner.tar.gz", t.TempDir())
	assert.True(t, derrors.IsCode(err, derrors.ErrFilesystem), "got %v", err)
}

func TestTarGzExtractor_ContextCanceled(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "runner.tar.gz")
	writeTarGz(t, archive, []tarEntry{{name: "config.sh", body: "x"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewTarGzExtractor().Extract(ctx, archive, filepath.Join(dir, "runner"))
	assert.ErrorIs(t, err, context.Canceled)
}

func withMaxEntrySize(t *testing.T, size int64) {
	t.Helper()
	prev := maxEntrySize
	maxEntrySize = size
	t.Cleanup(func() { maxEntrySize = prev })
}

func TestTarGzExtractor_Extract_EntryOverLimit(t *testing.T) {
	withMaxEntrySize(t, 16)

	dir := t.TempDir()
	archive := filepath.Join(dir, "runner.tar.gz")
	writeTarGz(t, archive, []tarEntry{
		{name: "config.sh", body: "#!/bin/bash\n"},
		{name: "bin/Runner.Listener", body: "this body is longer than sixteen bytes"},
	})

	dest := filepath.Join(dir, "runner")
	err := NewTarGzExtractor().Extract(context.Background(), archive, dest)
	require.Error(t, err)
	assert.True(t, derrors.IsCode(err, derrors.ErrArchive), "got %v", err)
	assert.ErrorIs(t, err, errEntryTooLarge)

	_, statErr := os.Stat(filepath.Join(dest, "bin", "Runner.Listener"))
	assert.True(t, os.IsNotExist(statErr), "oversize entry must not be written")
}

func TestWriteEntry_StreamOverLimit(t *testing.T) {
	withMaxEntrySize(t, 4)

	target := filepath.Join(t.TempDir(), "listener")
	err := writeEntry(bytes.NewReader([]byte("12345")), target, 0644)
	assert.ErrorIs(t, err, errEntryTooLarge)

	require.NoError(t, writeEntry(bytes.NewReader([]byte("1234")), target, 0644))
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "1234", string(content))
}
