package entities

// RunnerProfile describes how an implementation is registered and started
// once its archive is unpacked.
type RunnerProfile struct {
	Implementation Implementation
	// ConfigureCommand is the program, relative to the install directory, that
	// registers the runner with the coordinator
	ConfigureCommand string
	// ConfigureArgs builds the argument list for ConfigureCommand
	ConfigureArgs func(url, token, name string) []string
	// RunCommand is the program the service manager starts
	RunCommand string
	RunArgs    []string
}

var profiles = map[Implementation]RunnerProfile{
	ImplementationGH: {
		Implementation:   ImplementationGH,
		ConfigureCommand: "./config.sh",
		ConfigureArgs: func(url, token, _ string) []string {
			return []string{"--url", url, "--token", token}
		},
		RunCommand: "run.sh",
	},
	ImplementationCHX: {
		Implementation:   ImplementationCHX,
		ConfigureCommand: "./github-act-runner",
		ConfigureArgs: func(url, token, name string) []string {
			return []string{"configure", "--url", url, "--token", token, "--name", name}
		},
		RunCommand: "github-act-runner",
		RunArgs:    []string{"run"},
	},
}

// ProfileFor returns the profile of impl and whether it is known
func ProfileFor(impl Implementation) (RunnerProfile, bool) {
	p, ok := profiles[impl]
	return p, ok
}
