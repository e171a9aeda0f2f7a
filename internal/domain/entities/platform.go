package entities

import (
	"fmt"
	"strings"
)

// OS identifies the operating system of the host receiving the runner
type OS string

// Supported operating systems
const (
	OSMacOS   OS = "macos"
	OSLinux   OS = "linux"
	OSWindows OS = "windows"
)

// Arch identifies a CPU architecture as named in the catalog
type Arch string

// Supported architectures
const (
	ArchAMD64   Arch = "amd64"
	ArchARM     Arch = "arm"
	ArchARM64   Arch = "arm64"
	ArchARMv6   Arch = "armv6"
	ArchI386    Arch = "i386"
	ArchPPC64EL Arch = "ppc64el"
	ArchRISCV64 Arch = "riscv64"
)

// Implementation identifies which upstream project provides the runner binary
type Implementation string

// Supported runner implementations
const (
	// ImplementationGH is the upstream actions/runner
	ImplementationGH Implementation = "gh"
	// ImplementationCHX is ChristopherHX/github-act-runner
	ImplementationCHX Implementation = "chx"
)

// AllOS lists every accepted operating system in display order
var AllOS = []OS{OSMacOS, OSLinux, OSWindows}

// AllArch lists every accepted architecture in display order
var AllArch = []Arch{ArchAMD64, ArchARM, ArchARM64, ArchARMv6, ArchI386, ArchPPC64EL, ArchRISCV64}

// AllImplementations lists every accepted runner implementation
var AllImplementations = []Implementation{ImplementationGH, ImplementationCHX}

// PlatformKey identifies one catalog row. It is comparable and used directly as a map key.
type PlatformKey struct {
	OS             OS
	Arch           Arch
	Implementation Implementation
}

// String renders the key as "os/arch/implementation"
func (k PlatformKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.OS, k.Arch, k.Implementation)
}

// Less orders keys by OS, then architecture, then implementation
func (k PlatformKey) Less(other PlatformKey) bool {
	if k.OS != other.OS {
		return k.OS < other.OS
	}
	if k.Arch != other.Arch {
		return k.Arch < other.Arch
	}
	return k.Implementation < other.Implementation
}

// ParseOS validates an operating system name
func ParseOS(s string) (OS, error) {
	for _, v := range AllOS {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid os %q (choose from %s)", s, joinValues(AllOS))
}

// ParseArch validates an architecture name
func ParseArch(s string) (Arch, error) {
	for _, v := range AllArch {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid arch %q (choose from %s)", s, joinValues(AllArch))
}

// ParseImplementation validates a runner implementation name
func ParseImplementation(s string) (Implementation, error) {
	for _, v := range AllImplementations {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid runner %q (choose from %s)", s, joinValues(AllImplementations))
}

// ParsePlatformKey validates all three components of a key
func ParsePlatformKey(os, arch, impl string) (PlatformKey, error) {
	o, err := ParseOS(os)
	if err != nil {
		return PlatformKey{}, err
	}
	a, err := ParseArch(arch)
	if err != nil {
		return PlatformKey{}, err
	}
	i, err := ParseImplementation(impl)
	if err != nil {
		return PlatformKey{}, err
	}
	return PlatformKey{OS: o, Arch: a, Implementation: i}, nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
