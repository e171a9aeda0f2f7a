package main

import (
	"context"

	"github.com/ochairo/addrunner/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/addrunner/internal/domain-orchestrators"
	"github.com/ochairo/addrunner/internal/domain/entities"
	"github.com/ochairo/addrunner/internal/external-adapters/servicefile"
)

func (a *app) runInstall(ctx context.Context, req *entities.InstallRequest) error {
	catalog, err := loadCatalog(a.cfg)
	if err != nil {
		return err
	}

	orch := orchestrators.NewInstallOrchestrator(
		catalog,
		newFetcher(a.cfg),
		gateways.NewChecksumVerifier(),
		gateways.NewTarGzExtractor(),
		gateways.NewCommandExecutor(a.cfg.Install.ConfigureTimeout),
		servicefile.NewWriter(a.cfg.Service.PathEnv),
	)

	a.out.Infof("Installing %s runner for %s/%s into %s", req.Key.Implementation, req.Key.OS, req.Key.Arch, req.Directory)
	result, err := orch.Install(ctx, req)
	if err != nil {
		return err
	}

	a.out.OKf("Runner installed in %s (%s verified)", req.Directory, result.Artifact.Entry.ArchiveFileName)
	a.out.Infof("Service definition written to %s", result.Service.Path)
	a.out.Infof("Activate it as root:")
	for _, line := range result.Service.Instructions {
		a.out.Command(line)
	}
	return nil
}
