package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete client configuration, loadable from environment
// variables (DESK_ prefix), flags, or YAML config files.
type Config struct {
	APIBaseURL     string        `usage:"Catalog API base URL (DESK_API_BASE_URL or API_URL)" flag:"api-base-url"`
	PageSize       int           `default:"5"     usage:"Initial list page size" flag:"page-size"`
	SearchDebounce time.Duration `default:"300ms" usage:"Quiet period before a search term commits" flag:"search-debounce"`
	ToastTTL       time.Duration `default:"4s"    usage:"Notification auto-dismiss interval" flag:"toast-ttl"`
	RequestTimeout time.Duration `default:"10s"   usage:"Per-request API timeout" flag:"request-timeout"`
	Health         HealthConfig
}

// HealthConfig controls the backend reachability monitor.
type HealthConfig struct {
	Enabled  bool          `default:"true" usage:"Probe backend reachability in the background"`
	Interval time.Duration `default:"30s"  usage:"Reachability probe interval"`
	Timeout  time.Duration `default:"5s"   usage:"Reachability probe timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies generic-environment fallbacks.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "DESK",
		Files:     []string{"config.yaml", "/etc/product-desk/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyEnvDefaults()

	if cfg.APIBaseURL == "" {
		return nil, errors.New("API base URL is required: set DESK_API_BASE_URL or API_URL")
	}

	return &cfg, nil
}

// applyEnvDefaults maps the unprefixed API_URL variable used by local backend
// tooling onto the DESK_-prefixed configuration.
func (c *Config) applyEnvDefaults() {
	if c.APIBaseURL == "" {
		if v := os.Getenv("API_URL"); v != "" {
			c.APIBaseURL = v
		}
	}
}
