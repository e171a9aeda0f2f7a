// Package repositories defines interfaces for data access layers.
package repositories

import (
	"github.com/ochairo/addrunner/internal/domain/entities"
)

// CatalogRepository gives access to the single catalog active for this run
type CatalogRepository interface {
	// Lookup returns the entry for key or an UnknownPlatform error
	Lookup(key entities.PlatformKey) (entities.CatalogEntry, error)

	// AllEntries returns every record in a stable order
	AllEntries() []entities.CatalogRecord

	// Release returns the revision label of the active catalog
	Release() string
}
