package gateways

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
	"github.com/ochairo/addrunner/internal/logging"
)

// maxEntrySize caps a single extracted file (decompression bomb guard)
var maxEntrySize int64 = 1 << 30

var errEntryTooLarge = errors.New("entry exceeds size limit")

// TarGzExtractor unpacks .tar.gz runner archives natively
type TarGzExtractor struct {
	logger zerolog.Logger
}

// NewTarGzExtractor creates a new extractor
func NewTarGzExtractor() *TarGzExtractor {
	return &TarGzExtractor{logger: logging.GetLogger("extractor")}
}

// Extract unpacks archivePath into destDir, which is created if missing.
// Entries that would land outside destDir abort the extraction.
func (x *TarGzExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	if !isTarGz(archivePath) {
		return derrors.Archive(archivePath, fmt.Errorf("unsupported archive format"))
	}

	//nolint:gosec // G304: archivePath is the verified download
	file, err := os.Open(archivePath)
	if err != nil {
		return derrors.Filesystem("open", archivePath, err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return derrors.Archive(archivePath, err)
	}
	//nolint:errcheck // Defer close on gzip reader
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	if err := os.MkdirAll(destDir, 0750); err != nil {
		return derrors.Filesystem("mkdir", destDir, err)
	}
	root := filepath.Clean(destDir)

	// Symlinks are created after all regular files exist
	type symlinkInfo struct {
		target   string
		linkname string
	}
	var symlinks []symlinkInfo
	files := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return derrors.Archive(archivePath, fmt.Errorf("tar read error: %w", err))
		}

		//nolint:gosec // G305: Path traversal validated by within() below
		target := filepath.Join(root, header.Name)
		if !within(root, target) {
			return derrors.Archive(archivePath, fmt.Errorf("invalid file path in archive: %s", header.Name))
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0750); err != nil {
				return derrors.Filesystem("mkdir", target, err)
			}

		case tar.TypeReg:
			if header.Size > maxEntrySize {
				return derrors.Archive(archivePath, fmt.Errorf("%w: %s is %d bytes", errEntryTooLarge, header.Name, header.Size))
			}
			if err := writeEntry(tr, target, os.FileMode(header.Mode).Perm()); err != nil {
				if errors.Is(err, errEntryTooLarge) {
					return derrors.Archive(archivePath, fmt.Errorf("%w: %s", err, header.Name))
				}
				return err
			}
			files++

		case tar.TypeSymlink:
			symlinks = append(symlinks, symlinkInfo{target: target, linkname: header.Linkname})

		case tar.TypeLink:
			source := filepath.Join(root, header.Linkname)
			if !within(root, source) {
				return derrors.Archive(archivePath, fmt.Errorf("invalid hard link in archive: %s", header.Linkname))
			}
			if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
				return derrors.Filesystem("mkdir", filepath.Dir(target), err)
			}
			if err := os.Link(source, target); err != nil {
				return derrors.Filesystem("link", target, err)
			}

		default:
			x.logger.Warn().
				Str("entry", header.Name).
				Str("type", string(header.Typeflag)).
				Msg("Ignoring unsupported tar entry")
		}
	}

	for _, link := range symlinks {
		if err := os.MkdirAll(filepath.Dir(link.target), 0750); err != nil {
			return derrors.Filesystem("mkdir", filepath.Dir(link.target), err)
		}
		if err := os.Symlink(link.linkname, link.target); err != nil {
			// Some archives ship dangling links; keep going
			x.logger.Warn().Err(err).
				Str("link", link.target).
				Str("target", link.linkname).
				Msg("Failed to create symlink")
		}
	}

	x.logger.Debug().Str("dest", destDir).Int("files", files).Msg("Extracted")
	return nil
}

func writeEntry(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return derrors.Filesystem("mkdir", filepath.Dir(target), err)
	}

	//nolint:gosec // G304: target validated against the extraction root
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return derrors.Filesystem("create", target, err)
	}

	n, err := io.Copy(out, io.LimitReader(r, maxEntrySize+1))
	if err != nil {
		_ = out.Close()
		return derrors.Filesystem("write", target, err)
	}
	if n > maxEntrySize {
		_ = out.Close()
		return errEntryTooLarge
	}
	if err := out.Close(); err != nil {
		return derrors.Filesystem("close", target, err)
	}
	return nil
}

func within(root, target string) bool {
	clean := filepath.Clean(target)
	return clean == root || strings.HasPrefix(clean, root+string(os.PathSeparator))
}

func isTarGz(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz")
}
