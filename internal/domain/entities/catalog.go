package entities

import (
	"fmt"
	"sort"
	"strings"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

// CatalogEntry describes the pinned release archive for one platform
type CatalogEntry struct {
	BaseURL           string
	ArchiveFileName   string
	ExpectedDigestHex string // lowercase hex SHA-256 of the archive bytes
}

// URL returns the full download location of the archive
func (e CatalogEntry) URL() string {
	return e.BaseURL + e.ArchiveFileName
}

// CatalogRecord pairs a key with its entry for iteration
type CatalogRecord struct {
	Key   PlatformKey
	Entry CatalogEntry
}

// Catalog maps platform keys to release archives. It is immutable once built.
type Catalog struct {
	release string
	entries map[PlatformKey]CatalogEntry
}

// NewCatalog builds a catalog from records. Later duplicates replace earlier ones.
func NewCatalog(release string, records []CatalogRecord) *Catalog {
	entries := make(map[PlatformKey]CatalogEntry, len(records))
	for _, r := range records {
		entries[r.Key] = r.Entry
	}
	return &Catalog{
		release: release,
		entries: entries,
	}
}

// Release returns the revision label of the catalog (e.g. "2.317.0")
func (c *Catalog) Release() string {
	return c.release
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the entry for key. A missing key is an UnknownPlatform failure,
// never a default entry. When other runners exist for the same OS and
// architecture they are listed in the "runners" detail.
func (c *Catalog) Lookup(key PlatformKey) (CatalogEntry, error) {
	entry, ok := c.entries[key]
	if ok {
		return entry, nil
	}

	err := derrors.UnknownPlatform(key.String())
	if others := c.otherRunners(key); len(others) > 0 {
		err.Message += fmt.Sprintf(" (%s/%s is available with runner %s)", key.OS, key.Arch, strings.Join(others, ", "))
		err = err.WithDetail("runners", others)
	}
	return CatalogEntry{}, err
}

func (c *Catalog) otherRunners(key PlatformKey) []string {
	var others []string
	for _, impl := range AllImplementations {
		if impl == key.Implementation {
			continue
		}
		if _, ok := c.entries[PlatformKey{OS: key.OS, Arch: key.Arch, Implementation: impl}]; ok {
			others = append(others, string(impl))
		}
	}
	return others
}

// AllEntries returns every record sorted by key. Each call returns a fresh slice.
func (c *Catalog) AllEntries() []CatalogRecord {
	records := make([]CatalogRecord, 0, len(c.entries))
	for k, e := range c.entries {
		records = append(records, CatalogRecord{Key: k, Entry: e})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key.Less(records[j].Key)
	})
	return records
}
