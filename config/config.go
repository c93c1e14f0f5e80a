package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr           string        `env:"CONTACTS_ADDR" envDefault:":8080"`
	DataDir        string        `env:"CONTACTS_DATA_DIR" envDefault:"."`
	ContactsFile   string        `env:"CONTACTS_FILE" envDefault:"contacts_data.json"`
	CategoriesFile string        `env:"CONTACTS_CATEGORIES_FILE" envDefault:"categories.json"`
	VCFFile        string        `env:"CONTACTS_VCF_FILE" envDefault:"contacts.vcf"`
	ActivityDB     string        `env:"CONTACTS_ACTIVITY_DB" envDefault:"activity.db"`
	LockTimeout    time.Duration `env:"CONTACTS_LOCK_TIMEOUT" envDefault:"10s"`
	WatchFiles     bool          `env:"CONTACTS_WATCH_FILES" envDefault:"true"`

	DefaultCategories []string `env:"CONTACTS_DEFAULT_CATEGORIES" envSeparator:"," envDefault:"Family,Friends,Work,Medical,Services,Church,Business,Emergency"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	S3Config *S3Config `envPrefix:"S3_"`
}

// S3Config enables uploading CSV exports. Uploads are disabled while
// BucketName is empty.
type S3Config struct {
	AccessKey  string `env:"ACCESS_KEY"`
	SecretKey  string `env:"SECRET_KEY"`
	Region     string `env:"REGION" envDefault:"us-east-1"`
	BucketName string `env:"BUCKET_NAME"`
	ServiceUrl string `env:"SERVICE_URL"`
	BucketUrl  string `env:"BUCKET_URL"`
	Prefix     string `env:"PREFIX" envDefault:"exports/"`
}

func (c *S3Config) Enabled() bool {
	return c != nil && c.BucketName != ""
}

// NewConfig returns the defaults without reading the environment.
func NewConfig() *Config {
	cfg := &Config{S3Config: &S3Config{}}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("invalid config defaults: %v", err))
	}
	return cfg
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{S3Config: &S3Config{}}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ContactsFile == "" || c.CategoriesFile == "" {
		return fmt.Errorf("contacts and categories file names are required")
	}
	if c.ContactsFile == c.CategoriesFile {
		return fmt.Errorf("contacts and categories must use different files")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive, got %s", c.LockTimeout)
	}
	return nil
}

func (c *Config) ContactsPath() string {
	return c.resolve(c.ContactsFile)
}

func (c *Config) CategoriesPath() string {
	return c.resolve(c.CategoriesFile)
}

func (c *Config) VCFPath() string {
	return c.resolve(c.VCFFile)
}

func (c *Config) ActivityPath() string {
	return c.resolve(c.ActivityDB)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
