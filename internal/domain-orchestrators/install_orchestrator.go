// Package orchestrators coordinates the provisioning workflows across the
// catalog and the gateway adapters.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ochairo/addrunner/internal/domain/entities"
	derrors "github.com/ochairo/addrunner/internal/domain/errors"
	"github.com/ochairo/addrunner/internal/domain/interfaces/gateways"
	"github.com/ochairo/addrunner/internal/domain/interfaces/repositories"
	"github.com/ochairo/addrunner/internal/logging"
)

// InstallState names a step of the install workflow
type InstallState string

// Install workflow states, in execution order
const (
	StatePrecheck  InstallState = "precheck"
	StateLookup    InstallState = "lookup"
	StateDownload  InstallState = "download"
	StateVerify    InstallState = "verify"
	StateExtract   InstallState = "extract"
	StateConfigure InstallState = "configure"
	StateService   InstallState = "service"
	StateDone      InstallState = "done"
)

// InstallOrchestrator runs the install workflow. It is terminal on the first
// failure and leaves whatever it already created on disk in place.
type InstallOrchestrator struct {
	catalog   repositories.CatalogRepository
	fetcher   gateways.Fetcher
	verifier  gateways.Verifier
	extractor gateways.Extractor
	runner    gateways.CommandRunner
	services  gateways.ServiceWriter
	logger    zerolog.Logger
}

// NewInstallOrchestrator creates a new install orchestrator
func NewInstallOrchestrator(
	catalog repositories.CatalogRepository,
	fetcher gateways.Fetcher,
	verifier gateways.Verifier,
	extractor gateways.Extractor,
	runner gateways.CommandRunner,
	services gateways.ServiceWriter,
) *InstallOrchestrator {
	return &InstallOrchestrator{
		catalog:   catalog,
		fetcher:   fetcher,
		verifier:  verifier,
		extractor: extractor,
		runner:    runner,
		services:  services,
		logger:    logging.GetLogger("install"),
	}
}

// Install provisions one runner as described by req
func (o *InstallOrchestrator) Install(ctx context.Context, req *entities.InstallRequest) (*entities.InstallResult, error) {
	startTime := time.Now()

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Directory == "" {
		withDefault := *req
		withDefault.Directory = entities.DefaultDirectory(req.Key.OS, req.User)
		req = &withDefault
	}

	// Step 1: Refuse to touch an existing installation
	o.transition(StatePrecheck, req)
	if _, err := os.Lstat(req.Directory); err == nil {
		return nil, derrors.DirectoryExists(req.Directory)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, derrors.Filesystem("stat", req.Directory, err)
	}

	// Step 2: Resolve the archive
	o.transition(StateLookup, req)
	entry, err := o.catalog.Lookup(req.Key)
	if err != nil {
		return nil, err
	}
	if req.Key.OS == entities.OSWindows {
		return nil, derrors.UnsupportedOS(string(req.Key.OS))
	}
	profile, ok := entities.ProfileFor(req.Key.Implementation)
	if !ok {
		return nil, derrors.Newf(derrors.ErrInvalidInput, "no runner profile for %s", req.Key.Implementation)
	}

	// Step 3: Download into the new install directory
	o.transition(StateDownload, req)
	if err := os.MkdirAll(req.Directory, 0750); err != nil {
		return nil, derrors.Filesystem("mkdir", req.Directory, err)
	}
	artifact := &entities.Artifact{
		Key:   req.Key,
		Entry: entry,
		Path:  filepath.Join(req.Directory, entry.ArchiveFileName),
	}
	artifact.Size, err = o.fetcher.Fetch(ctx, entry.URL(), artifact.Path)
	if err != nil {
		return nil, err
	}

	// Step 4: Integrity gate. Nothing below runs on a mismatch.
	o.transition(StateVerify, req)
	res, err := o.verifier.Verify(artifact.Path, entry.ExpectedDigestHex)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		o.logger.Error().
			Str("archive", entry.ArchiveFileName).
			Str("expected", res.ExpectedHex).
			Str("actual", res.ActualHex).
			Msg("Checksum mismatch")
		return nil, derrors.Integrity(artifact.Path, entry.ExpectedDigestHex, res.ActualHex)
	}
	artifact.Verified = true

	// Step 5: Unpack
	o.transition(StateExtract, req)
	if err := o.extractor.Extract(ctx, artifact.Path, req.Directory); err != nil {
		return nil, err
	}
	if !req.KeepArchive {
		if err := os.Remove(artifact.Path); err != nil {
			o.logger.Warn().Err(err).Str("archive", artifact.Path).Msg("Failed to remove archive")
		}
	}

	// Step 6: Register with the coordinator
	o.transition(StateConfigure, req)
	err = o.runner.Run(ctx, gateways.CommandSpec{
		Name:       profile.ConfigureCommand,
		Args:       profile.ConfigureArgs(req.URL, req.Token, req.RunnerName),
		WorkingDir: req.Directory,
		Sensitive:  []string{req.Token},
	})
	if err != nil {
		return nil, err
	}

	// Step 7: Service definition
	o.transition(StateService, req)
	service, err := o.services.WriteService(req, profile)
	if err != nil {
		return nil, err
	}

	o.logger.Info().
		Str("platform", req.Key.String()).
		Str("dir", req.Directory).
		Dur("duration", time.Since(startTime)).
		Msg(string(StateDone))

	return &entities.InstallResult{
		Artifact: artifact,
		Service:  service,
	}, nil
}

func (o *InstallOrchestrator) transition(state InstallState, req *entities.InstallRequest) {
	o.logger.Info().
		Str("state", string(state)).
		Str("platform", req.Key.String()).
		Msg("Install step")
}

func validateRequest(req *entities.InstallRequest) error {
	if req == nil {
		return derrors.New(derrors.ErrInvalidInput, "install request is required")
	}
	var missing []string
	if req.User == "" {
		missing = append(missing, "user")
	}
	if req.URL == "" {
		missing = append(missing, "url")
	}
	if req.Token == "" {
		missing = append(missing, "token")
	}
	if len(missing) > 0 {
		return derrors.New(derrors.ErrInvalidInput, fmt.Sprintf("missing required option(s): %s", strings.Join(missing, ", ")))
	}
	return nil
}
