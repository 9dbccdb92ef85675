package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CircleCI struct {
		APIHost string        `yaml:"api_host"`
		WebHost string        `yaml:"web_host"`
		Token   string        `yaml:"token"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"circleci"`

	Project struct {
		VCS          string `yaml:"vcs"`
		Organization string `yaml:"organization"`
	} `yaml:"project"`

	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`

	Notify struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"notify"`
}

func DefaultPath() string {
	return expandHome("~/.config/ci-status/config.yaml")
}

// Load layers defaults, the YAML file (missing file is fine) and env
// overrides. Network credentials are validated by ValidateForAPI, not
// here: read-only commands work from the cache alone.
func Load(path string) (Config, error) {
	var c Config

	c.CircleCI.APIHost = "https://circleci.com"
	c.CircleCI.WebHost = "https://app.circleci.com"
	c.CircleCI.Timeout = 10 * time.Second
	c.Project.VCS = "gh"
	c.Notify.Enabled = true

	if path == "" {
		path = DefaultPath()
	}
	if b, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(b, &c)
	}

	if v := os.Getenv("CIRCLE_API_HOST"); v != "" {
		c.CircleCI.APIHost = v
	}

	if v := os.Getenv("CIRCLE_WEB_HOST"); v != "" {
		c.CircleCI.WebHost = v
	}

	if v := os.Getenv("CIRCLE_TOKEN"); v != "" {
		c.CircleCI.Token = v
	}

	if v := os.Getenv("CIRCLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CircleCI.Timeout = d
		}
	}

	if v := os.Getenv("CIRCLE_VCS"); v != "" {
		c.Project.VCS = v
	}

	if v := os.Getenv("CIRCLE_ORGANIZATION"); v != "" {
		c.Project.Organization = v
	}

	if v := os.Getenv("CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}

	c.Cache.Path = expandHome(c.Cache.Path)

	if c.CircleCI.APIHost == "" {
		c.CircleCI.APIHost = "https://circleci.com"
	}

	if c.CircleCI.WebHost == "" {
		c.CircleCI.WebHost = "https://app.circleci.com"
	}

	if c.CircleCI.Timeout <= 0 {
		c.CircleCI.Timeout = 10 * time.Second
	}

	if c.Project.VCS == "" {
		c.Project.VCS = "gh"
	}

	return c, nil
}

// ValidateForAPI is required before any command that reaches the network.
func (c Config) ValidateForAPI() error {
	if c.CircleCI.Token == "" {
		return errors.New("CIRCLE_TOKEN is required")
	}

	if c.Project.Organization == "" {
		return errors.New("organization is required (project.organization or CIRCLE_ORGANIZATION)")
	}

	return nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if h, _ := os.UserHomeDir(); h != "" {
			return h + p[1:]
		}
	}
	return p
}
