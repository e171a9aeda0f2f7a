package entities

import "path"

// InstallRequest carries the parsed operator options into the install workflow
type InstallRequest struct {
	Key         PlatformKey
	User        string
	URL         string // CI coordinator (repository or organization URL)
	Token       string // registration token; never logged
	Directory   string
	RunnerName  string // used by implementations that require an explicit name
	KeepArchive bool
}

// DefaultDirectory returns the install directory used when none is given:
// /home/<user>/actions-runner on linux, /Users/<user>/actions-runner elsewhere.
func DefaultDirectory(os OS, user string) string {
	home := "/Users"
	if os == OSLinux {
		home = "/home"
	}
	return path.Join(home, user, "actions-runner")
}

// ServiceDescriptor is the OS service definition written into the install directory
type ServiceDescriptor struct {
	Path         string   // file written
	Instructions []string // shell lines the operator runs (as root) to activate it
}

// InstallResult summarizes a completed installation
type InstallResult struct {
	Artifact *Artifact
	Service  *ServiceDescriptor
}
