package main

import (
	"context"
	"os"

	"github.com/ochairo/addrunner/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/addrunner/internal/domain-orchestrators"
	"github.com/ochairo/addrunner/internal/ui"
)

// reporter prints self-test results as tagged lines
type reporter struct {
	out *ui.Printer
}

func (r *reporter) Report(res orchestrators.SelfTestResult) {
	switch res.Outcome {
	case orchestrators.OutcomeOK:
		r.out.OKf("%s", res.Summary())
	case orchestrators.OutcomeMismatch:
		r.out.Mismatchf("%s", res.Summary())
	default:
		r.out.Errorf("%s", res.Summary())
	}
}

func (a *app) runSelfTest(ctx context.Context) error {
	catalog, err := loadCatalog(a.cfg)
	if err != nil {
		return err
	}

	a.out.Infof("Checking %d entries of catalog %s", catalog.Len(), catalog.Release())
	orch := orchestrators.NewSelfTestOrchestrator(newFetcher(a.cfg), gateways.NewChecksumVerifier(), os.TempDir())
	if code := orch.Run(ctx, catalog, &reporter{out: a.out}); code != 0 {
		return &exitError{code: code}
	}
	return nil
}
