package server

import (
	"time"

	"github.com/looplj/modelguard/internal/server/middleware"
	"github.com/looplj/modelguard/internal/tracing"
)

type Config struct {
	Host        string        `conf:"host" yaml:"host" json:"host"`
	Port        int           `conf:"port" yaml:"port" json:"port"`
	Name        string        `conf:"name" yaml:"name" json:"name"`
	BasePath    string        `conf:"base_path" yaml:"base_path" json:"base_path"`
	ReadTimeout time.Duration `conf:"read_timeout" yaml:"read_timeout" json:"read_timeout"`

	// RequestTimeout is the maximum duration for processing a request.
	RequestTimeout time.Duration `conf:"request_timeout" yaml:"request_timeout" json:"request_timeout"`

	Trace tracing.Config        `conf:"trace" yaml:"trace" json:"trace"`
	Auth  middleware.AuthConfig `conf:"auth" yaml:"auth" json:"auth"`

	Debug bool `conf:"debug" yaml:"debug" json:"debug"`
}
