package radiobrowser

import (
	"flag"
	"time"

	"github.com/grafana/dskit/flagext"
	"github.com/zachfi/zkit/pkg/util"
)

const (
	// AutoURL makes the module discover a mirror at startup.
	AutoURL = "auto"

	DefaultURL        = "https://de1.api.radio-browser.info"
	DefaultServersURL = "https://all.api.radio-browser.info/json/servers"

	defaultLimit     = 100
	defaultCacheTTL  = time.Hour
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "stationgo/1.0"
)

// DefaultKeywords is merged into every tag filter.
var DefaultKeywords = []string{
	"christian", "gospel", "islamic", "buddhist", "meditation", "worship", "quran", "hindu",
}

type Config struct {
	URL        string                 `yaml:"url,omitempty"`
	ServersURL string                 `yaml:"servers-url,omitempty"`
	Keywords   flagext.StringSliceCSV `yaml:"keywords,omitempty"`
	Limit      int                    `yaml:"limit,omitempty"`
	CacheTTL   time.Duration          `yaml:"cache-ttl,omitempty"`
	Timeout    time.Duration          `yaml:"timeout,omitempty"`
	UserAgent  string                 `yaml:"user-agent,omitempty"`
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	cfg.Keywords = append(flagext.StringSliceCSV(nil), DefaultKeywords...)

	f.StringVar(&cfg.URL, util.PrefixConfig(prefix, "url"), DefaultURL, `Base URL of the radio-browser API, or "auto" to pick a mirror at startup.`)
	f.StringVar(&cfg.ServersURL, util.PrefixConfig(prefix, "servers-url"), DefaultServersURL, "Endpoint listing radio-browser mirrors, used when url is auto.")
	f.Var(&cfg.Keywords, util.PrefixConfig(prefix, "keywords"), "Comma-separated tags merged into every directory query.")
	f.IntVar(&cfg.Limit, util.PrefixConfig(prefix, "limit"), defaultLimit, "Number of stations requested when the query sets no limit.")
	f.DurationVar(&cfg.CacheTTL, util.PrefixConfig(prefix, "cache-ttl"), defaultCacheTTL, "How long a directory response is reused. 0 disables the cache.")
	f.DurationVar(&cfg.Timeout, util.PrefixConfig(prefix, "timeout"), defaultTimeout, "Timeout of one directory request.")
	f.StringVar(&cfg.UserAgent, util.PrefixConfig(prefix, "user-agent"), defaultUserAgent, "User-Agent sent to the directory.")
}
