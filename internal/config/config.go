package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/konstantinfoerster/scryfall-go/internal/web"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL   = "https://api.scryfall.com/"
	DefaultPageDelay = 100 * time.Millisecond
	DefaultImageType = "large"
	DefaultCacheTTL  = 24 * time.Hour
)

type Config struct {
	Storage  Storage  `yaml:"storage"`
	Logging  Logging  `yaml:"logging"`
	Scryfall Scryfall `yaml:"scryfall"`
	Database Database `yaml:"database"`
}

type Database struct {
	Host           string `yaml:"host"`
	Port           string `yaml:"port"`
	Database       string `yaml:"database"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	MaxConnections int32  `yaml:"maxConnections"`
}

func (d Database) ConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s", d.Username, d.Password, net.JoinHostPort(d.Host, d.Port), d.Database)
}

func (d Database) MaxConnectionsOrDefault() int32 {
	if d.MaxConnections == 0 {
		defaultSize := int32(4)
		numCPU := runtime.NumCPU()
		if numCPU <= 0 || numCPU > math.MaxInt32 {
			panic("unsupported cpu count > maxInt32 or cpu count <= 0")
		}
		// #nosec G115 checked above
		nCPU := int32(numCPU)
		if nCPU > defaultSize {
			return nCPU
		}

		return defaultSize
	}

	return d.MaxConnections
}

type Logging struct {
	Level string `yaml:"level"`
}

func (l Logging) LevelOrDefault() string {
	level := strings.TrimSpace(l.Level)
	if level == "" {
		level = "INFO"
	}

	return strings.ToLower(level)
}

// Search holds the default query modifiers appended to every card search.
type Search struct {
	AllLanguages  bool `yaml:"allLanguages"`
	AllPrints     bool `yaml:"allPrints"`
	IncludeExtras bool `yaml:"includeExtras"`
}

type Cache struct {
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

func (c Cache) Enabled() bool {
	return strings.TrimSpace(c.Path) != ""
}

func (c Cache) TTLOrDefault() time.Duration {
	if c.TTL <= 0 {
		return DefaultCacheTTL
	}

	return c.TTL
}

type Scryfall struct {
	BaseURL   string        `yaml:"baseUrl"`
	PageDelay time.Duration `yaml:"pageDelay"`
	ImageType string        `yaml:"imageType"`
	Search    Search        `yaml:"search"`
	Client    web.Config    `yaml:"client"`
	Cache     Cache         `yaml:"cache"`
}

func (s Scryfall) BaseURLOrDefault() string {
	if strings.TrimSpace(s.BaseURL) == "" {
		return DefaultBaseURL
	}

	return s.BaseURL
}

// PageDelayOrDefault returns the pause between two page requests. A negative value disables the pause.
func (s Scryfall) PageDelayOrDefault() time.Duration {
	if s.PageDelay == 0 {
		return DefaultPageDelay
	}

	return max(s.PageDelay, 0)
}

func (s Scryfall) ImageTypeOrDefault() string {
	t := strings.ToLower(strings.TrimSpace(s.ImageType))
	if t == "" {
		return DefaultImageType
	}

	return t
}

// EnsureBaseURL returns rawURL unchanged if it is absolute, otherwise it is resolved against the base url.
func (s Scryfall) EnsureBaseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %s, %w", rawURL, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}

	base, err := url.Parse(s.BaseURLOrDefault())
	if err != nil {
		return "", fmt.Errorf("invalid base url %s, %w", s.BaseURLOrDefault(), err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return base.ResolveReference(&url.URL{Path: strings.TrimPrefix(u.Path, "/"), RawQuery: u.RawQuery}).String(), nil
}

const (
	REPLACE = "REPLACE"
	CREATE  = "CREATE"
)

type Storage struct {
	Location string `yaml:"location"`
	Mode     string `yaml:"mode"`
}

func Load(path string) (*Config, error) {
	s, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if s.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory, not a regular file", path)
	}

	return buildConfig(path)
}

func buildConfig(path string) (*Config, error) {
	// #nosec G304 path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}

	config := &Config{}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("config unmarshal failed with: %w", err)
	}

	if _, err := url.Parse(config.Scryfall.BaseURLOrDefault()); err != nil {
		return nil, fmt.Errorf("invalid scryfall base url: %w", err)
	}

	return config, nil
}
