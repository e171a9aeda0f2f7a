// Package servicefile renders the service-manager definitions that keep an
// installed runner alive: a systemd unit on Linux and a launchd property list
// on macOS.
package servicefile

import (
	"os"
	"path/filepath"

	"github.com/ochairo/addrunner/internal/domain/entities"
	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

// Service names shared by both formats
const (
	UnitFileName  = "github-action-runner.service"
	PlistFileName = "github-action-runner.plist"
	LaunchdLabel  = "github.action.runner"
)

// DefaultPathEnv is the PATH launchd hands to the runner on macOS
const DefaultPathEnv = "/opt/homebrew/bin:/bin:/usr/bin:/usr/local/bin"

// Writer emits the service definition for the request's operating system
type Writer struct {
	pathEnv string
}

// NewWriter creates a writer; an empty pathEnv selects DefaultPathEnv
func NewWriter(pathEnv string) *Writer {
	if pathEnv == "" {
		pathEnv = DefaultPathEnv
	}
	return &Writer{pathEnv: pathEnv}
}

// WriteService writes the definition into req.Directory and returns its
// location together with the activation commands
func (w *Writer) WriteService(req *entities.InstallRequest, profile entities.RunnerProfile) (*entities.ServiceDescriptor, error) {
	switch req.Key.OS {
	case entities.OSLinux:
		content, err := RenderSystemdUnit(req, profile)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(req.Directory, UnitFileName)
		if err := writeFile(path, content); err != nil {
			return nil, err
		}
		return &entities.ServiceDescriptor{Path: path, Instructions: systemdInstructions(path)}, nil

	case entities.OSMacOS:
		content, err := RenderLaunchdPlist(req, profile, w.pathEnv)
		if err != nil {
			return nil, err
		}
		// launchd does not create the directory holding StandardOutPath
		logDir := filepath.Join(req.Directory, "log")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			return nil, derrors.Filesystem("mkdir", logDir, err)
		}
		path := filepath.Join(req.Directory, PlistFileName)
		if err := writeFile(path, content); err != nil {
			return nil, err
		}
		return &entities.ServiceDescriptor{Path: path, Instructions: launchdInstructions(path)}, nil

	default:
		return nil, derrors.UnsupportedOS(string(req.Key.OS))
	}
}

func writeFile(path, content string) error {
	//nolint:gosec // G306: service definitions are read by the service manager
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return derrors.Filesystem("write", path, err)
	}
	return nil
}

func systemdInstructions(path string) []string {
	return []string{
		"cp " + path + " /etc/systemd/system/",
		"systemctl enable " + UnitFileName,
		"service github-action-runner start",
		"service github-action-runner status",
	}
}

func launchdInstructions(path string) []string {
	installed := "/Library/LaunchAgents/" + PlistFileName
	return []string{
		"cp " + path + " /Library/LaunchAgents/",
		"launchctl load " + installed,
		"launchctl start " + installed,
		"launchctl print gui/$UID/" + LaunchdLabel,
	}
}
