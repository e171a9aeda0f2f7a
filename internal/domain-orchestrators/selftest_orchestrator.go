package orchestrators

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ochairo/addrunner/internal/domain/entities"
	derrors "github.com/ochairo/addrunner/internal/domain/errors"
	"github.com/ochairo/addrunner/internal/domain/interfaces/gateways"
	"github.com/ochairo/addrunner/internal/domain/interfaces/repositories"
	"github.com/ochairo/addrunner/internal/logging"
)

// SelfTestOutcome classifies one checked catalog entry
type SelfTestOutcome string

// Self-test outcomes
const (
	OutcomeOK       SelfTestOutcome = "ok"
	OutcomeMismatch SelfTestOutcome = "mismatch"
	OutcomeError    SelfTestOutcome = "error"
)

// SelfTestResult is the verdict for one catalog entry
type SelfTestResult struct {
	Key       entities.PlatformKey
	Entry     entities.CatalogEntry
	Outcome   SelfTestOutcome
	ActualHex string
	Bytes     int64
	Err       error
}

// SelfTestReporter receives one result per catalog entry, in catalog order
type SelfTestReporter interface {
	Report(result SelfTestResult)
}

// SelfTestOrchestrator re-downloads every catalog archive and checks it
// against its pinned digest. It never installs anything.
type SelfTestOrchestrator struct {
	fetcher  gateways.Fetcher
	verifier gateways.Verifier
	tempDir  string
	logger   zerolog.Logger
}

// NewSelfTestOrchestrator creates a self-test runner. An empty tempDir uses os.TempDir.
func NewSelfTestOrchestrator(fetcher gateways.Fetcher, verifier gateways.Verifier, tempDir string) *SelfTestOrchestrator {
	return &SelfTestOrchestrator{
		fetcher:  fetcher,
		verifier: verifier,
		tempDir:  tempDir,
		logger:   logging.GetLogger("selftest"),
	}
}

// Run checks entries strictly one after another and returns the process exit
// code: 0 when every entry matched, 1 otherwise
func (o *SelfTestOrchestrator) Run(ctx context.Context, catalog repositories.CatalogRepository, reporter SelfTestReporter) int {
	records := catalog.AllEntries()
	o.logger.Info().
		Str("release", catalog.Release()).
		Int("entries", len(records)).
		Msg("Starting self-test")

	exitCode := 0
	for _, rec := range records {
		result := o.check(ctx, rec)
		if result.Outcome != OutcomeOK {
			exitCode = 1
		}
		reporter.Report(result)
	}
	return exitCode
}

func (o *SelfTestOrchestrator) check(ctx context.Context, rec entities.CatalogRecord) SelfTestResult {
	result := SelfTestResult{Key: rec.Key, Entry: rec.Entry}

	tmp, err := os.CreateTemp(o.tempDir, "add-runner-selftest-*")
	if err != nil {
		result.Outcome = OutcomeError
		result.Err = derrors.Filesystem("create", o.tempDir, err)
		return result
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			o.logger.Warn().Err(err).Str("file", path).Msg("Failed to remove temporary download")
		}
	}()

	result.Bytes, err = o.fetcher.Fetch(ctx, rec.Entry.URL(), path)
	if err != nil {
		result.Outcome = OutcomeError
		result.Err = err
		return result
	}

	res, err := o.verifier.Verify(path, rec.Entry.ExpectedDigestHex)
	if err != nil {
		result.Outcome = OutcomeError
		result.Err = err
		return result
	}
	result.ActualHex = res.ActualHex
	if res.OK {
		result.Outcome = OutcomeOK
	} else {
		result.Outcome = OutcomeMismatch
	}

	o.logger.Debug().
		Str("platform", rec.Key.String()).
		Str("outcome", string(result.Outcome)).
		Int64("bytes", result.Bytes).
		Msg("Entry checked")
	return result
}

// Summary describes the result without its outcome tag:
// "<key>", "<key> expected <hex> actual <hex>" or "<key>: <cause>"
func (r SelfTestResult) Summary() string {
	switch r.Outcome {
	case OutcomeOK:
		return r.Key.String()
	case OutcomeMismatch:
		return fmt.Sprintf("%s expected %s actual %s", r.Key, r.Entry.ExpectedDigestHex, r.ActualHex)
	default:
		return fmt.Sprintf("%s: %v", r.Key, r.Err)
	}
}
