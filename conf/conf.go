// Package conf loads the application configuration from file and
// environment. Fields are resolved in order: defaults, config file,
// MODELGUARD_* environment variables.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/looplj/modelguard/internal/guard"
	"github.com/looplj/modelguard/internal/log"
	"github.com/looplj/modelguard/internal/server"
	"github.com/looplj/modelguard/internal/server/db"
)

type Config struct {
	fx.Out

	Log       log.Config    `conf:"log" yaml:"log" json:"log"`
	APIServer server.Config `conf:"server" yaml:"server" json:"server"`
	DB        db.Config     `conf:"db" yaml:"db" json:"db"`
	Guard     guard.Config  `conf:"guard" yaml:"guard" json:"guard"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("modelguard")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/modelguard")

	v.SetEnvPrefix("MODELGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("conf: read config: %w", err)
		}
	}

	var config Config

	err := v.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
	})
	if err != nil {
		return Config{}, fmt.Errorf("conf: unmarshal config: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.name", "modelguard")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoder", "console")

	v.SetDefault("server.name", "modelguard")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.trace.trace_header", "MG-Trace-Id")
	v.SetDefault("server.trace.request_header", "MG-Request-Id")

	v.SetDefault("db.dialect", "memory")

	v.SetDefault("guard.per_object_control", true)
	v.SetDefault("guard.enforce_blocking", true)
}
