// Package config loads add-runner settings from built-in defaults, an optional
// TOML file and ADD_RUNNER_* environment variables, in that order.
package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
)

// EnvPrefix is the prefix of environment overrides
const EnvPrefix = "ADD_RUNNER_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Config is the fully merged configuration
type Config struct {
	HTTP    HTTPConfig    `koanf:"http"`
	Catalog CatalogConfig `koanf:"catalog"`
	Install InstallConfig `koanf:"install"`
	Service ServiceConfig `koanf:"service"`
	Log     LogConfig     `koanf:"log"`
}

// HTTPConfig tunes archive downloads
type HTTPConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`
}

// CatalogConfig selects and authenticates the active catalog
type CatalogConfig struct {
	Path      string `koanf:"path"`
	Signature string `koanf:"signature"`
	PublicKey string `koanf:"public_key"`
}

// InstallConfig tunes the install workflow
type InstallConfig struct {
	KeepArchive      bool          `koanf:"keep_archive"`
	ConfigureTimeout time.Duration `koanf:"configure_timeout"`
}

// ServiceConfig tunes the generated service definitions
type ServiceConfig struct {
	PathEnv string `koanf:"path_env"`
}

// LogConfig tunes logging
type LogConfig struct {
	Verbosity int    `koanf:"verbosity"`
	File      string `koanf:"file"`
}

// LoadOptions controls where configuration comes from
type LoadOptions struct {
	// Path of the config file. Empty tries DefaultPath and skips it when absent;
	// an explicit path must exist.
	Path string
	// Overrides are applied last (command-line flags), keyed like "catalog.path"
	Overrides map[string]interface{}
}

// DefaultPath returns $XDG_CONFIG_HOME/add-runner/config.toml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "add-runner", "config.toml")
}

// Load merges every configuration layer and validates the result
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, derrors.Wrap(err, derrors.ErrConfig, "failed to load defaults")
	}

	// 2. User config file
	path := opts.Path
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, derrors.Wrapf(err, derrors.ErrConfig, "failed to load config from %s", path)
		}
	} else if explicit {
		return nil, derrors.Wrapf(err, derrors.ErrConfig, "config file %s", path)
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.ErrConfig, "failed to load env vars")
	}

	// 4. Command-line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, derrors.Wrap(err, derrors.ErrConfig, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, derrors.Wrap(err, derrors.ErrConfig, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the commands cannot act on
func (c *Config) Validate() error {
	if c.HTTP.Timeout < 0 {
		return derrors.Newf(derrors.ErrConfig, "http.timeout must not be negative (got %s)", c.HTTP.Timeout)
	}
	if c.Install.ConfigureTimeout < 0 {
		return derrors.Newf(derrors.ErrConfig, "install.configure_timeout must not be negative (got %s)", c.Install.ConfigureTimeout)
	}
	if c.Catalog.Signature != "" {
		if c.Catalog.Path == "" {
			return derrors.New(derrors.ErrConfig, "catalog.signature requires catalog.path")
		}
		if c.Catalog.PublicKey == "" {
			return derrors.New(derrors.ErrConfig, "catalog.signature requires catalog.public_key")
		}
	}
	if c.Catalog.PublicKey != "" && c.Catalog.Signature == "" {
		return derrors.New(derrors.ErrConfig, "catalog.public_key is set but catalog.signature is not")
	}
	return nil
}

// envKey maps ADD_RUNNER_CATALOG_PUBLIC_KEY to catalog.public_key.
// Only the first underscore separates the section from the key.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}
