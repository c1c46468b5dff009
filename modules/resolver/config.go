package resolver

import (
	"flag"
	"os"
	"time"

	"github.com/zachfi/zkit/pkg/util"

	"github.com/zachfi/stationgo/pkg/probe"
	"github.com/zachfi/stationgo/pkg/radiobrowser"
)

const (
	// RelayEnv supplies the default CORS relay base.
	RelayEnv = "STATIONGO_CORS_RELAY"

	defaultRequestTimeout = 30 * time.Second
	defaultMaxLimit       = 500
)

type Config struct {
	Directory             radiobrowser.Config `yaml:"directory,omitempty"`
	Probe                 ProbeConfig         `yaml:"probe,omitempty"`
	Relay                 RelayConfig         `yaml:"relay,omitempty"`
	Registry              RegistryConfig      `yaml:"registry,omitempty"`
	RequestTimeout        time.Duration       `yaml:"request-timeout,omitempty"`         // bound on one whole resolve
	MaxConcurrentStations int                 `yaml:"max-concurrent-stations,omitempty"` // 0 = no limit
	MaxLimit              int                 `yaml:"max-limit,omitempty"`               // cap on the limit query parameter
}

type ProbeConfig struct {
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	UserAgent string        `yaml:"user-agent,omitempty"`
}

type RelayConfig struct {
	URL string `yaml:"url,omitempty"`
}

type RegistryConfig struct {
	File            string `yaml:"file,omitempty"`
	IncludeDefaults bool   `yaml:"include-defaults,omitempty"`
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	cfg.Directory.RegisterFlagsAndApplyDefaults(util.PrefixConfig(prefix, "directory"), f)

	f.DurationVar(&cfg.Probe.Timeout, util.PrefixConfig(prefix, "probe.timeout"), probe.DefaultTimeout, "Deadline of a single stream liveness probe.")
	f.StringVar(&cfg.Probe.UserAgent, util.PrefixConfig(prefix, "probe.user-agent"), "stationgo/1.0", "User-Agent sent with liveness probes.")
	f.StringVar(&cfg.Relay.URL, util.PrefixConfig(prefix, "relay.url"), os.Getenv(RelayEnv), "CORS relay base prepended to playback URLs. Defaults to $"+RelayEnv+".")
	f.StringVar(&cfg.Registry.File, util.PrefixConfig(prefix, "registry.file"), "", "YAML file of curated stations. Empty uses the built-in list.")
	f.BoolVar(&cfg.Registry.IncludeDefaults, util.PrefixConfig(prefix, "registry.include-defaults"), true, "Keep the built-in stations when a registry file is given.")
	f.DurationVar(&cfg.RequestTimeout, util.PrefixConfig(prefix, "request-timeout"), defaultRequestTimeout, "Upper bound on resolving one listing. Stations still unresolved are returned as not working.")
	f.IntVar(&cfg.MaxConcurrentStations, util.PrefixConfig(prefix, "max-concurrent-stations"), 0, "Stations resolved in parallel. 0 means no limit.")
	f.IntVar(&cfg.MaxLimit, util.PrefixConfig(prefix, "max-limit"), defaultMaxLimit, "Largest limit accepted by the stations endpoint.")
}
