package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/config"
	"gopkg.in/yaml.v3"
)

// Defaults applied to any field the file leaves empty
const (
	DefaultHostname   = "github.com"
	DefaultAuthorName = "GitPusher"
	DefaultBranch     = "main"
	DefaultUploadMode = "sequential"
	DefaultBatchSize  = 3
)

// Config is the user configuration
type Config struct {
	Hostname      string `yaml:"hostname,omitempty"`
	Email         string `yaml:"email,omitempty"`
	AuthorName    string `yaml:"author_name,omitempty"`
	DefaultBranch string `yaml:"default_branch,omitempty"`
	UploadMode    string `yaml:"upload_mode,omitempty"`
	BatchSize     int    `yaml:"batch_size,omitempty"`
	// Token is inline or a ${ENV_VAR} reference
	Token string `yaml:"token,omitempty"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Path returns the config file location: GITPUSHER_CONFIG or ~/.gitpusher/config.yaml
func Path() string {
	if custom := os.Getenv("GITPUSHER_CONFIG"); custom != "" {
		return custom
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitpusher.yaml"
	}
	return filepath.Join(homeDir, ".gitpusher", "config.yaml")
}

// Load reads the file at path. A missing file is not an error.
// The returned config has defaults applied but no environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadEffective loads the file at Path() and applies environment overrides
func LoadEffective() (*Config, error) {
	cfg, err := Load(Path())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Hostname == "" {
		c.Hostname = DefaultHostname
	}
	if c.AuthorName == "" {
		c.AuthorName = DefaultAuthorName
	}
	if c.DefaultBranch == "" {
		c.DefaultBranch = DefaultBranch
	}
	if c.UploadMode == "" {
		c.UploadMode = DefaultUploadMode
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
}

// ApplyEnv overrides file values with GITHUB_TOKEN, GITPUSHER_EMAIL and GITPUSHER_HOSTNAME
func (c *Config) ApplyEnv() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.Token = token
	}
	if email := os.Getenv("GITPUSHER_EMAIL"); email != "" {
		c.Email = email
	}
	if hostname := os.Getenv("GITPUSHER_HOSTNAME"); hostname != "" {
		c.Hostname = hostname
	}
}

// ResolvedToken returns the token with ${VAR} references expanded
func (c *Config) ResolvedToken() string {
	return envVarPattern.ReplaceAllStringFunc(c.Token, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// ResolvedEmail returns the configured email, falling back to user.email
// from the global git config
func (c *Config) ResolvedEmail() string {
	if c.Email != "" {
		return c.Email
	}
	global, err := gitconfig.LoadConfig(gitconfig.GlobalScope)
	if err != nil {
		return ""
	}
	return global.User.Email
}

// Save writes the config to path, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// The file may hold a token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Keys returns the settable keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type accessor struct {
	get func(*Config) string
	set func(*Config, string) error
}

var accessors = map[string]accessor{
	"hostname": {
		get: func(c *Config) string { return c.Hostname },
		set: func(c *Config, v string) error { c.Hostname = v; return nil },
	},
	"email": {
		get: func(c *Config) string { return c.Email },
		set: func(c *Config, v string) error { c.Email = v; return nil },
	},
	"author_name": {
		get: func(c *Config) string { return c.AuthorName },
		set: func(c *Config, v string) error { c.AuthorName = v; return nil },
	},
	"default_branch": {
		get: func(c *Config) string { return c.DefaultBranch },
		set: func(c *Config, v string) error { c.DefaultBranch = v; return nil },
	},
	"upload_mode": {
		get: func(c *Config) string { return c.UploadMode },
		set: func(c *Config, v string) error {
			switch v {
			case "sequential", "concurrent":
				c.UploadMode = v
				return nil
			}
			return fmt.Errorf("upload_mode must be sequential or concurrent, got %q", v)
		},
	},
	"batch_size": {
		get: func(c *Config) string { return strconv.Itoa(c.BatchSize) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("batch_size must be a positive integer, got %q", v)
			}
			c.BatchSize = n
			return nil
		},
	},
	"token": {
		get: func(c *Config) string { return maskToken(c.Token) },
		set: func(c *Config, v string) error { c.Token = v; return nil },
	},
}

// Get returns the value of key; the token is masked
func (c *Config) Get(key string) (string, error) {
	a, ok := accessors[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	return a.get(c), nil
}

// Set validates and assigns value to key
func (c *Config) Set(key, value string) error {
	a, ok := accessors[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	return a.set(c, value)
}

func maskToken(token string) string {
	switch {
	case token == "":
		return ""
	case envVarPattern.MatchString(token):
		return token
	case len(token) <= 8:
		return "********"
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
