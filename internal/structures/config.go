package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	// Size is the freecache arena size in MB.
	Size int `yaml:"size"`
	// TTL is the logical freshness window of a cached artifact. Entries
	// older than TTL but younger than Retention are still servable when
	// the storage read fails (stale-on-error).
	TTL       time.Duration `yaml:"ttl"`
	Retention time.Duration `yaml:"retention"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type HTTPClientConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"required|min:1"`
	UserAgent string        `yaml:"userAgent"`
}

type Office365Config struct {
	Enabled          bool          `yaml:"enabled"`
	Interval         time.Duration `yaml:"interval" validate:"required|min:1"`
	StorageDir       string        `yaml:"storageDir" validate:"required|unixPath"`
	UpdateHistoryURL string        `yaml:"updateHistoryUrl"`
}

type EditionPages struct {
	UpdateHistoryURL string `yaml:"updateHistoryUrl"`
	ReleaseInfoURL   string `yaml:"releaseInfoUrl"`
}

type WindowsConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Interval     time.Duration `yaml:"interval" validate:"required|min:1"`
	StartupDelay time.Duration `yaml:"startupDelay"`
	StorageDir   string        `yaml:"storageDir" validate:"required|unixPath"`
	// EnrichCount is how many of the most recent updates get their KB
	// article fetched for details; EnrichDelay is the politeness pause
	// between those fetches.
	EnrichDelay time.Duration `yaml:"enrichDelay"`
	EnrichCount int           `yaml:"enrichCount"`
	Windows10   EditionPages  `yaml:"windows10"`
	Windows11   EditionPages  `yaml:"windows11"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	WebServer  Server           `yaml:"webServer"`
	Logger     LoggerConfig     `yaml:"logger"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	HTTPClient HTTPClientConfig `yaml:"httpClient"`
	Office365  Office365Config  `yaml:"office365"`
	Windows    WindowsConfig    `yaml:"windows"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
