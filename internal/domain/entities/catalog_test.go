package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

func testCatalog() *Catalog {
	return NewCatalog("2.317.0", []CatalogRecord{
		{
			Key: PlatformKey{OS: OSLinux, Arch: ArchAMD64, Implementation: ImplementationGH},
			Entry: CatalogEntry{
				BaseURL:           "https://github.com/actions/runner/releases/download/v2.316.1/",
				ArchiveFileName:   "actions-runner-linux-x64-2.316.1.tar.gz",
				ExpectedDigestHex: "9e883d210df8c6028aff475475a457d380353f9d01877d51cc01a17b2a91161d",
			},
		},
		{
			Key: PlatformKey{OS: OSMacOS, Arch: ArchARM64, Implementation: ImplementationGH},
			Entry: CatalogEntry{
				BaseURL:           "https://github.com/actions/runner/releases/download/v2.317.0/",
				ArchiveFileName:   "actions-runner-osx-arm64-2.317.0.tar.gz",
				ExpectedDigestHex: "70b765f32062de395a35676579e25ab433270d7367feb8da85dcfe42560feaba",
			},
		},
		{
			Key: PlatformKey{OS: OSLinux, Arch: ArchRISCV64, Implementation: ImplementationCHX},
			Entry: CatalogEntry{
				BaseURL:           "https://github.com/ChristopherHX/github-act-runner/releases/download/v0.7.0/",
				ArchiveFileName:   "binary-linux-riscv64.tar.gz",
				ExpectedDigestHex: "aa",
			},
		},
	})
}

func TestCatalog_Lookup(t *testing.T) {
	c := testCatalog()

	entry, err := c.Lookup(PlatformKey{OS: OSLinux, Arch: ArchAMD64, Implementation: ImplementationGH})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/actions/runner/releases/download/v2.316.1/actions-runner-linux-x64-2.316.1.tar.gz", entry.URL())
	assert.Equal(t, "9e883d210df8c6028aff475475a457d380353f9d01877d51cc01a17b2a91161d", entry.ExpectedDigestHex)
}

func TestCatalog_Lookup_UnknownPlatform(t *testing.T) {
	c := testCatalog()

	tests := []PlatformKey{
		{OS: OSWindows, Arch: ArchRISCV64, Implementation: ImplementationGH},
		{OS: OSLinux, Arch: ArchRISCV64, Implementation: ImplementationGH},
		{OS: OSLinux, Arch: ArchAMD64, Implementation: ImplementationCHX},
	}
	for _, key := range tests {
		t.Run(key.String(), func(t *testing.T) {
			_, err := c.Lookup(key)
			require.Error(t, err)
			assert.True(t, derrors.IsCode(err, derrors.ErrUnknownPlatform))

			pe, ok := derrors.As(err)
			require.True(t, ok)
			assert.Equal(t, key.String(), pe.Detail("platform"))
		})
	}
}

func TestCatalog_AllEntries_Sorted(t *testing.T) {
	c := testCatalog()
	records := c.AllEntries()
	require.Len(t, records, 3)
	assert.Equal(t, 3, c.Len())

	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].Key.Less(records[i].Key), "%s before %s", records[i-1].Key, records[i].Key)
	}

	// Callers may not mutate the catalog through the returned slice
	records[0].Entry.ExpectedDigestHex = "tampered"
	again := c.AllEntries()
	assert.NotEqual(t, "tampered", again[0].Entry.ExpectedDigestHex)
}

func TestCatalog_Lookup_SuggestsOtherRunner(t *testing.T) {
	c := testCatalog()

	_, err := c.Lookup(PlatformKey{OS: OSLinux, Arch: ArchRISCV64, Implementation: ImplementationGH})
	pe, ok := derrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"chx"}, pe.Detail("runners"))
	assert.Contains(t, pe.Error(), "linux/riscv64 is available with runner chx")

	_, err = c.Lookup(PlatformKey{OS: OSWindows, Arch: ArchRISCV64, Implementation: ImplementationGH})
	pe, ok = derrors.As(err)
	require.True(t, ok)
	assert.Nil(t, pe.Detail("runners"))
}

func TestPlatformKey_String(t *testing.T) {
	k := PlatformKey{OS: OSLinux, Arch: ArchPPC64EL, Implementation: ImplementationCHX}
	assert.Equal(t, "linux/ppc64el/chx", k.String())
}

func TestParsePlatformKey(t *testing.T) {
	key, err := ParsePlatformKey("macos", "arm64", "gh")
	require.NoError(t, err)
	assert.Equal(t, PlatformKey{OS: OSMacOS, Arch: ArchARM64, Implementation: ImplementationGH}, key)

	tests := []struct {
		name, os, arch, impl, want string
	}{
		{"bad os", "freebsd", "amd64", "gh", "invalid os"},
		{"bad arch", "linux", "x86_64", "gh", "invalid arch"},
		{"bad runner", "linux", "amd64", "gitlab", "invalid runner"},
		{"case sensitive", "Linux", "amd64", "gh", "invalid os"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlatformKey(tt.os, tt.arch, tt.impl)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefaultDirectory(t *testing.T) {
	assert.Equal(t, "/home/ci/actions-runner", DefaultDirectory(OSLinux, "ci"))
	assert.Equal(t, "/Users/ci/actions-runner", DefaultDirectory(OSMacOS, "ci"))
	assert.Equal(t, "/Users/ci/actions-runner", DefaultDirectory(OSWindows, "ci"))
}

func TestProfileFor(t *testing.T) {
	gh, ok := ProfileFor(ImplementationGH)
	require.True(t, ok)
	assert.Equal(t, "./config.sh", gh.ConfigureCommand)
	assert.Equal(t, []string{"--url", "https://github.com/org/repo", "--token", "T"}, gh.ConfigureArgs("https://github.com/org/repo", "T", "ignored"))

	chx, ok := ProfileFor(ImplementationCHX)
	require.True(t, ok)
	assert.Equal(t, []string{"configure", "--url", "U", "--token", "T", "--name", "host-1"}, chx.ConfigureArgs("U", "T", "host-1"))
	assert.Equal(t, []string{"run"}, chx.RunArgs)

	_, ok = ProfileFor(Implementation("unknown"))
	assert.False(t, ok)
}
