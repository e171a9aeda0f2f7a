package main

import (
	"github.com/ochairo/addrunner/internal/config"
	"github.com/ochairo/addrunner/internal/domain-adapters/gateways"
	"github.com/ochairo/addrunner/internal/domain/entities"
	"github.com/ochairo/addrunner/internal/external-adapters/yaml"
)

// loadCatalog returns the single catalog active for this run
func loadCatalog(cfg *config.Config) (*entities.Catalog, error) {
	var auth yaml.Authenticator
	if cfg.Catalog.PublicKey != "" {
		auth = gateways.NewSignatureVerifier(cfg.Catalog.PublicKey)
	}
	repo := yaml.NewCatalogRepository(yaml.CatalogSource{
		Path:          cfg.Catalog.Path,
		SignaturePath: cfg.Catalog.Signature,
	}, auth)
	return repo.Load()
}

func newFetcher(cfg *config.Config) *gateways.HTTPFetcher {
	opts := []gateways.FetcherOption{gateways.WithUserAgent(cfg.HTTP.UserAgent)}
	if cfg.HTTP.Timeout > 0 {
		opts = append(opts, gateways.WithTimeout(cfg.HTTP.Timeout))
	}
	return gateways.NewHTTPFetcher(opts...)
}
