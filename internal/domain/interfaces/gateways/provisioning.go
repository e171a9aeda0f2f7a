// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"

	"github.com/ochairo/addrunner/internal/domain/entities"
)

// Fetcher downloads a resource to a local file, creating or truncating it.
// It never retries.
type Fetcher interface {
	Fetch(ctx context.Context, url, destinationPath string) (int64, error)
}

// Verifier computes and checks SHA-256 digests of local files
type Verifier interface {
	Digest(path string) (string, error)
	Verify(path, expectedHex string) (entities.VerifyResult, error)
}

// Extractor unpacks a verified archive into a directory
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// CommandRunner runs an external program and reports its exit status
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) error
}

// CommandSpec describes one external program invocation
type CommandSpec struct {
	Name       string
	Args       []string
	WorkingDir string
	// Sensitive values are redacted from logs and error messages
	Sensitive []string
}

// ServiceWriter emits the OS service definition for an installed runner
type ServiceWriter interface {
	WriteService(req *entities.InstallRequest, profile entities.RunnerProfile) (*entities.ServiceDescriptor, error)
}
