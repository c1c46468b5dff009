package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/grafana/dskit/flagext"
	"github.com/grafana/dskit/server"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/zachfi/zkit/pkg/tracing"

	"github.com/zachfi/stationgo/modules/resolver"
)

const configFileOption = "config.file"

type Config struct {
	Target   string          `yaml:"target"`
	Tracing  tracing.Config  `yaml:"tracing,omitempty"`
	Server   server.Config   `yaml:"server,omitempty"`
	Resolver resolver.Config `yaml:"resolver,omitempty"`
}

// LoadConfig builds a Config from defaults, then the file named by
// -config.file, then the remaining flags in args.
func LoadConfig(fs *flag.FlagSet, args []string) (*Config, error) {
	configFile := findConfigFile(args)

	config := &Config{}
	config.RegisterFlagsAndApplyDefaults("", fs)

	if configFile != "" {
		buff, err := os.ReadFile(configFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read configFile %s", configFile)
		}

		if err := yaml.UnmarshalStrict(buff, config); err != nil {
			return nil, errors.Wrapf(err, "failed to parse configFile %s", configFile)
		}
	}

	flagext.IgnoredFlag(fs, configFileOption, "Configuration file to load")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return config, nil
}

// findConfigFile scans args for -config.file. Parsing stops on the first
// unknown flag, so the remaining arguments are retried until it is found.
func findConfigFile(args []string) string {
	var configFile string

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&configFile, configFileOption, "", "")

	for len(args) > 0 {
		_ = fs.Parse(args)
		args = args[1:]
	}

	return configFile
}

func (c *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	flagext.DefaultValues(&c.Server)
	f.StringVar(&c.Target, "target", All, "Module to run.")
	f.IntVar(&c.Server.HTTPListenPort, "server.http-listen-port", 3030, "HTTP server listen port.")
	f.IntVar(&c.Server.GRPCListenPort, "server.grpc-listen-port", 9090, "gRPC server listen port.")
	f.Var(&c.Server.LogLevel, "log.level", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error]")

	c.Tracing.RegisterFlagsAndApplyDefaults("tracing", f)
	c.Resolver.RegisterFlagsAndApplyDefaults("resolver", f)
}

// SlogLevel maps the configured log level onto slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	s := c.Server.LogLevel.String()
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
