package inkpress

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Link is a named navigation or social link.
type Link struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url"`
}

// SiteConfig holds all configuration for an inkpress site.
type SiteConfig struct {
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description"`
	URL         string `yaml:"url" validate:"required,url"`
	Base        string `yaml:"base" validate:"omitempty,startswith=/"` // "" for a root deploy
	Author      string `yaml:"author"`

	Social []Link `yaml:"social" validate:"dive"`
	Nav    []Link `yaml:"nav" validate:"dive"`

	Addr         string `yaml:"addr" validate:"required"`
	ContentDir   string `yaml:"content_dir" validate:"required"`
	PublicDir    string `yaml:"public_dir"`
	DatabasePath string `yaml:"database_path" validate:"required"`
	CoversDir    string `yaml:"covers_dir"`

	// StrictContent makes a load fail when any document is invalid instead
	// of skipping the offending documents.
	StrictContent bool `yaml:"strict_content"`

	// AdminPassword enables /admin/ when set. Secrets only come from the
	// environment.
	AdminPassword string `yaml:"-"`
	SessionSecret string `yaml:"-" validate:"required_with=AdminPassword"`
	CookieSecure  bool   `yaml:"cookie_secure"`

	LogLevel     string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error off"`
	PostCacheTTL time.Duration `yaml:"post_cache_ttl"`
}

func (c *SiteConfig) setDefaults() {
	if c.Title == "" {
		c.Title = "My Blog"
	}
	if c.Description == "" {
		c.Description = "A personal blog about technology, thoughts, and experiences"
	}
	if c.URL == "" {
		c.URL = "https://example.com"
	}
	if c.Social == nil {
		c.Social = []Link{
			{Name: "GitHub", URL: "https://github.com/yourusername"},
			{Name: "LinkedIn", URL: "https://www.linkedin.com/in/yourprofile"},
			{Name: "X / Twitter", URL: "https://twitter.com/yourusername"},
		}
	}
	if c.Nav == nil {
		c.Nav = []Link{
			{Name: "Home", URL: ""},
			{Name: "Blog", URL: "blog"},
			{Name: "About", URL: "about"},
		}
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "src/content/blog"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/inkpress.db"
	}
	if c.CoversDir == "" {
		c.CoversDir = "data/covers"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration after defaults have been applied.
func (c *SiteConfig) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msgs := make([]error, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Errorf("%s fails %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("inkpress: invalid config: %w", errors.Join(msgs...))
		}
		return fmt.Errorf("inkpress: invalid config: %w", err)
	}
	return nil
}

// AdminEnabled reports whether the content dashboard is served.
func (c *SiteConfig) AdminEnabled() bool {
	return c.AdminPassword != ""
}

// LoadConfig reads a YAML config file, applies environment overrides and
// defaults, and validates the result. A missing file yields the defaults.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("inkpress: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return SiteConfig{}, fmt.Errorf("inkpress: read %s: %w", path, err)
	}

	cfg.Addr = EnvOr("INKPRESS_ADDR", cfg.Addr)
	cfg.URL = EnvOr("INKPRESS_SITE_URL", cfg.URL)
	cfg.AdminPassword = EnvOr("INKPRESS_ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.SessionSecret = EnvOr("INKPRESS_SESSION_SECRET", cfg.SessionSecret)
	cfg.LogLevel = EnvOr("INKPRESS_LOG_LEVEL", cfg.LogLevel)

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
