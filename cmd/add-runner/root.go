package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ochairo/addrunner/internal/config"
	"github.com/ochairo/addrunner/internal/domain/entities"
	derrors "github.com/ochairo/addrunner/internal/domain/errors"
	"github.com/ochairo/addrunner/internal/logging"
	"github.com/ochairo/addrunner/internal/ui"
)

// app carries state shared by every command once PersistentPreRunE ran
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	out    *ui.Printer
}

type rootFlags struct {
	os          string
	arch        string
	runner      string
	user        string
	url         string
	token       string
	directory   string
	name        string
	selfTest    bool
	keepArchive bool

	configPath  string
	catalogPath string
	logFile     string
	verbosity   int
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags
	a := &app{stdout: stdout, stderr: stderr, out: ui.NewPrinter(stdout)}

	cmd := &cobra.Command{
		Use:   "add-runner",
		Short: "Install a self-hosted CI runner",
		Long: `add-runner downloads the runner archive pinned for the chosen platform,
verifies its SHA-256 digest, unpacks it into the install directory, registers
it with the coordinator and writes a systemd unit or launchd property list.

With --test every catalog entry is downloaded and checked instead; nothing is
installed and all other options are ignored.`,
		Example: `  add-runner --os linux --arch amd64 --user ci --url https://github.com/acme/app --token XXXX
  add-runner --os linux --arch riscv64 --runner chx --user ci --url https://github.com/acme --token XXXX
  add-runner --test`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.SetupLogger(logging.Options{
				Verbosity: cfg.Log.Verbosity,
				Console:   stderr,
				LogFile:   cfg.Log.File,
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.selfTest {
				return a.runSelfTest(cmd.Context())
			}
			req, err := flags.installRequest(a.cfg)
			if err != nil {
				return err
			}
			return a.runInstall(cmd.Context(), req)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&flags.os, "os", "", "operating system of this host (macos, linux, windows)")
	f.StringVar(&flags.arch, "arch", "", "CPU architecture (amd64, arm, arm64, armv6, i386, ppc64el, riscv64)")
	f.StringVar(&flags.runner, "runner", string(entities.ImplementationGH), "runner implementation (gh, chx)")
	f.StringVar(&flags.user, "user", "", "account that owns and runs the runner")
	f.StringVar(&flags.url, "url", "", "repository or organization URL the runner registers with")
	f.StringVar(&flags.token, "token", "", "registration token")
	f.StringVar(&flags.directory, "directory", "", "install directory (default /home/<user>/actions-runner on linux, /Users/<user>/actions-runner on macos)")
	f.StringVar(&flags.name, "name", "", "runner name for implementations that need one (default: hostname)")
	f.BoolVar(&flags.keepArchive, "keep-archive", false, "keep the downloaded archive after extraction")
	f.BoolVar(&flags.selfTest, "test", false, "check every catalog entry against its pinned digest and exit")

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/add-runner/config.toml)")
	pf.StringVar(&flags.catalogPath, "catalog", "", "catalog file replacing the built-in one")
	pf.StringVar(&flags.logFile, "log-file", "", `log file path, "-" disables file logging`)
	pf.CountVarP(&flags.verbosity, "verbose", "v", "increase verbosity (-v info, -vv debug, -vvv trace)")

	cmd.AddCommand(
		newListCmd(a),
		newDigestCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// loadConfig merges config layers with the flags the operator actually set
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("catalog") {
		overrides["catalog.path"] = flags.catalogPath
	}
	if cmd.Flags().Changed("log-file") {
		overrides["log.file"] = flags.logFile
	}
	if cmd.Flags().Changed("verbose") {
		overrides["log.verbosity"] = flags.verbosity
	}
	if f := cmd.Flags().Lookup("keep-archive"); f != nil && f.Changed {
		overrides["install.keep_archive"] = flags.keepArchive
	}
	return config.Load(config.LoadOptions{Path: flags.configPath, Overrides: overrides})
}

var hostname = os.Hostname

// installRequest validates the install flags
func (f *rootFlags) installRequest(cfg *config.Config) (*entities.InstallRequest, error) {
	var missing []string
	for _, req := range []struct{ name, value string }{
		{"os", f.os}, {"arch", f.arch}, {"user", f.user}, {"url", f.url}, {"token", f.token},
	} {
		if req.value == "" {
			missing = append(missing, "--"+req.name)
		}
	}
	if len(missing) > 0 {
		return nil, derrors.Newf(derrors.ErrInvalidInput, "required flag(s) not set: %s", strings.Join(missing, ", "))
	}

	key, err := entities.ParsePlatformKey(f.os, f.arch, f.runner)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.ErrInvalidInput, "invalid platform")
	}

	name := f.name
	if name == "" {
		if host, err := hostname(); err == nil {
			name = host
		}
	}
	if name == "" && key.Implementation == entities.ImplementationCHX {
		return nil, derrors.New(derrors.ErrInvalidInput, "cannot determine the host name, set the runner name with --name")
	}

	dir := f.directory
	if dir == "" {
		dir = entities.DefaultDirectory(key.OS, f.user)
	}

	return &entities.InstallRequest{
		Key:         key,
		User:        f.user,
		URL:         f.url,
		Token:       f.token,
		Directory:   dir,
		RunnerName:  name,
		KeepArchive: cfg.Install.KeepArchive,
	}, nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(a.stdout, "add-runner %s (%s)\n", version, commit)
		},
	}
}
