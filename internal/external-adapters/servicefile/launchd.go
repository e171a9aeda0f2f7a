package servicefile

import (
	"fmt"
	"path"

	"github.com/beevik/etree"

	"github.com/ochairo/addrunner/internal/domain/entities"
)

const plistDoctype = `DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`

// RenderLaunchdPlist renders the property list that keeps the runner alive under launchd
func RenderLaunchdPlist(req *entities.InstallRequest, profile entities.RunnerProfile, pathEnv string) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(plistDoctype)

	plist := doc.CreateElement("plist")
	plist.CreateAttr("version", "1.0")
	dict := plist.CreateElement("dict")

	addString(dict, "Label", LaunchdLabel)
	addString(dict, "UserName", req.User)

	dict.CreateElement("key").SetText("EnvironmentVariables")
	env := dict.CreateElement("dict")
	addString(env, "PATH", pathEnv)

	addString(dict, "WorkingDirectory", req.Directory)

	program := path.Join(req.Directory, profile.RunCommand)
	if len(profile.RunArgs) == 0 {
		addString(dict, "Program", program)
	} else {
		dict.CreateElement("key").SetText("ProgramArguments")
		array := dict.CreateElement("array")
		array.CreateElement("string").SetText(program)
		for _, arg := range profile.RunArgs {
			array.CreateElement("string").SetText(arg)
		}
	}

	addString(dict, "StandardOutPath", path.Join(req.Directory, "log", "github_action_runner_out.log"))
	addString(dict, "StandardErrorPath", path.Join(req.Directory, "log", "github_action_runner_err.log"))

	dict.CreateElement("key").SetText("RunAtLoad")
	dict.CreateElement("true")
	dict.CreateElement("key").SetText("KeepAlive")
	dict.CreateElement("true")

	doc.Indent(4)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("render launchd plist: %w", err)
	}
	return out, nil
}

func addString(dict *etree.Element, key, value string) {
	dict.CreateElement("key").SetText(key)
	dict.CreateElement("string").SetText(value)
}
