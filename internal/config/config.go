// Package config loads repodigest settings from a TOML file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/phobologic/repodigest/internal/model"
)

// Config is the persisted configuration.
type Config struct {
	Precision       string       `toml:"precision"`
	OutlierMethod   string       `toml:"outlier_method"`
	ExcludeOutliers bool         `toml:"exclude_outliers"`
	StripComments   bool         `toml:"strip_comments"`
	Concurrency     int          `toml:"concurrency"`
	GitHub          GitHubConfig `toml:"github"`
	S3              S3Config     `toml:"s3"`
}

// GitHubConfig holds API settings for remote repositories.
type GitHubConfig struct {
	Token     string `toml:"token"`
	APIURL    string `toml:"api_url"`
	CacheSize int    `toml:"cache_size"`
}

// S3Config describes the bucket used for s3:// outputs.
type S3Config struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Prefix    string `toml:"prefix"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "repodigest", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "repodigest", "config.toml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Precision:     model.Standard.String(),
		OutlierMethod: string(model.Median),
		Concurrency:   8,
		GitHub: GitHubConfig{
			APIURL:    "https://api.github.com",
			CacheSize: 512,
		},
		S3: S3Config{
			Region: "us-east-1",
			UseSSL: true,
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path means DefaultPath, which may be absent; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads dir/.env into the process environment without replacing
// variables that are already set. A missing file is not an error.
func LoadDotEnv(dir string) error {
	p := filepath.Join(dir, ".env")
	if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(p); err != nil {
		return fmt.Errorf("loading %s: %w", p, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("GITHUB_TOKEN", &c.GitHub.Token)
	str("REPODIGEST_GITHUB_TOKEN", &c.GitHub.Token)
	str("REPODIGEST_GITHUB_API_URL", &c.GitHub.APIURL)
	str("REPODIGEST_PRECISION", &c.Precision)
	str("REPODIGEST_OUTLIER_METHOD", &c.OutlierMethod)
	str("REPODIGEST_S3_ENDPOINT", &c.S3.Endpoint)
	str("REPODIGEST_S3_REGION", &c.S3.Region)
	str("REPODIGEST_S3_BUCKET", &c.S3.Bucket)
	str("REPODIGEST_S3_ACCESS_KEY", &c.S3.AccessKey)
	str("REPODIGEST_S3_SECRET_KEY", &c.S3.SecretKey)
	str("REPODIGEST_S3_PREFIX", &c.S3.Prefix)
	if v, ok := lookup("REPODIGEST_S3_USE_SSL"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.S3.UseSSL = b
		}
	}
	if v, ok := lookup("REPODIGEST_CONCURRENCY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
}

// Validate checks enumerations and limits.
func (c *Config) Validate() error {
	var errs []error
	if _, err := model.ParsePrecision(c.Precision); err != nil {
		errs = append(errs, err)
	}
	if _, err := model.ParseOutlierMethod(c.OutlierMethod); err != nil {
		errs = append(errs, err)
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.GitHub.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("github.cache_size must be at least 1, got %d", c.GitHub.CacheSize))
	}
	return errors.Join(errs...)
}

// PrecisionValue returns the parsed precision, Standard if invalid.
func (c *Config) PrecisionValue() model.Precision {
	p, _ := model.ParsePrecision(c.Precision)
	return p
}

// Method returns the parsed outlier method, Median if invalid.
func (c *Config) Method() model.OutlierMethod {
	m, _ := model.ParseOutlierMethod(c.OutlierMethod)
	return m
}

const encodeHeader = `# repodigest configuration
#
# precision: core, standard or full
# outlier_method: mean, median or iqr
# github.token is usually supplied through GITHUB_TOKEN
# [s3] is used by --output s3://bucket/key

`

// Encode writes cfg as TOML under a comment header. Secrets are written
// empty.
func Encode(cfg *Config, w io.Writer) error {
	c := *cfg
	c.GitHub.Token = ""
	c.S3.AccessKey = ""
	c.S3.SecretKey = ""

	if _, err := io.WriteString(w, encodeHeader); err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
