// Package config provides functionality for managing configuration options
// for passc using command-line flags, environment variables and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PASSC"

const (
	defaultDirName    = ".passcualito"
	defaultStoreFile  = "passwords.dat"
	defaultExportFile = "passcualito.json"
	defaultLogLevel   = "error"
)

// Options holds the configuration values for the application.
type Options struct {
	// StoreDir is the directory holding the store file.
	StoreDir string `mapstructure:"store-dir"`

	// StoreFile is the store file name inside StoreDir.
	StoreFile string `mapstructure:"store-file"`

	// ExportFile is the default destination of the export command.
	ExportFile string `mapstructure:"export-file"`

	// LogLevel is the zap level for diagnostics on stderr.
	LogLevel string `mapstructure:"log-level"`

	// ConfigFile is the path to an explicit config file.
	ConfigFile string `mapstructure:"config"`
}

// StorePath returns the full path of the store file.
func (o *Options) StorePath() string {
	return filepath.Join(o.StoreDir, o.StoreFile)
}

// DefaultStoreDir returns ~/.passcualito, or a relative .passcualito when
// the home directory is unknown.
func DefaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("store-dir", DefaultStoreDir(), "directory holding the store file")
	fs.String("store-file", defaultStoreFile, "store file name")
	fs.String("export-file", defaultExportFile, "default export destination")
	fs.String("log-level", defaultLogLevel, "log level: debug, info, warn, error")
	fs.String("config", "", "path to config file (JSON or YAML)")
}

// Load resolves the options. Precedence, highest first: flags set on the
// command line, PASSC_* environment variables, the config file, defaults.
// Without an explicit config file, config.json or config.yaml in the store
// directory is read if present.
func Load(fs *pflag.FlagSet) (*Options, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("store-dir", DefaultStoreDir())
	v.SetDefault("store-file", defaultStoreFile)
	v.SetDefault("export-file", defaultExportFile)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("config", "")

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(v.GetString("store-dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	opts := &Options{}
	if err := v.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return opts, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var result error
	fs.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}
