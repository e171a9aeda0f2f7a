package servicefile

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/ochairo/addrunner/internal/domain/entities"
	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

var systemdUnitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description="Github CI service"

[Service]
User={{ .User }}
WorkingDirectory={{ .Directory }}
ExecStart={{ .ExecStart }}
Restart=always
RestartSec=3

[Install]
WantedBy=multi-user.target
`))

type systemdUnit struct {
	User      string
	Directory string
	ExecStart string
}

// RenderSystemdUnit renders the unit file that restarts the runner on exit
func RenderSystemdUnit(req *entities.InstallRequest, profile entities.RunnerProfile) (string, error) {
	for name, v := range map[string]string{"user": req.User, "directory": req.Directory} {
		if strings.ContainsAny(v, "\n\r") {
			return "", derrors.Newf(derrors.ErrInvalidInput, "%s must not contain line breaks", name)
		}
	}

	var buf bytes.Buffer
	err := systemdUnitTemplate.Execute(&buf, systemdUnit{
		User:      req.User,
		Directory: req.Directory,
		ExecStart: execStart(req.Directory, profile),
	})
	if err != nil {
		return "", fmt.Errorf("render systemd unit: %w", err)
	}
	return buf.String(), nil
}

// execStart builds the unit's command line. systemd only accepts an absolute
// path or a bare name as the executable, so the runner binary is anchored to
// the install directory. run.sh is a bash script and is started through bash
// so a missing executable bit does not matter.
func execStart(directory string, profile entities.RunnerProfile) string {
	if strings.HasSuffix(profile.RunCommand, ".sh") {
		return "bash ./" + profile.RunCommand
	}
	parts := append([]string{quoteArg(path.Join(directory, profile.RunCommand))}, profile.RunArgs...)
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if !strings.ContainsAny(s, " \t") {
		return s
	}
	return `"` + s + `"`
}
