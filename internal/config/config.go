// Package config loads the formmanager command settings from
// formmanager.yaml and FORMMANAGER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-formmanager/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. FORMMANAGER_DATABASE.
const EnvPrefix = "FORMMANAGER"

// Config holds the command settings.
type Config struct {
	// Database is the SQLite DSN, a file path or ":memory:".
	Database string `mapstructure:"database"`
	// Definitions is a directory of form definition documents.
	Definitions string `mapstructure:"definitions"`
	// Templates overrides the embedded vanilla templates.
	Templates string `mapstructure:"templates"`
	// Themes is a directory of theme manifests.
	Themes  string         `mapstructure:"themes"`
	Theme   string         `mapstructure:"theme"`
	Variant string         `mapstructure:"variant"`
	Listen  string         `mapstructure:"listen"`
	Log     logging.Config `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	def := logging.DefaultConfig()
	v.SetDefault("database", "formmanager.db")
	v.SetDefault("definitions", "")
	v.SetDefault("templates", "")
	v.SetDefault("themes", "")
	v.SetDefault("theme", "")
	v.SetDefault("variant", "")
	v.SetDefault("listen", ":8080")
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.console", def.Console)
	v.SetDefault("log.json", def.JSON)
	v.SetDefault("log.file", def.File)
	v.SetDefault("log.max_size", def.MaxSize)
	v.SetDefault("log.max_backups", def.MaxBackups)
	v.SetDefault("log.max_age", def.MaxAge)
	v.SetDefault("log.compress", def.Compress)
}

// New returns a viper instance with the defaults, the environment binding
// and the config search path set up. An empty path searches the working
// directory and $HOME/.formmanager for formmanager.yaml.
func New(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("formmanager")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.formmanager")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads the config file when present and decodes the settings. A
// missing file in the search path is not an error; a missing explicit path is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.ConfigFileUsed() != "" {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}
