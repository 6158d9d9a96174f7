package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Alijeyrad/vlog_backend/pkg/constants"
	"github.com/spf13/viper"
)

var GlobalConf *Config

// legacyEnv maps config keys to the bare environment names the site used
// before this service existed. They are checked after the prefixed names.
var legacyEnv = map[string][]string{
	"database.uri":                {"MONGODB_URI"},
	"media.cloudinary.cloud_name": {"CLOUDINARY_CLOUD_NAME", "NEXT_PUBLIC_CLOUDINARY_CLOUD_NAME"},
	"media.cloudinary.api_key":    {"CLOUDINARY_API_KEY", "NEXT_PUBLIC_CLOUDINARY_API_KEY"},
	"media.cloudinary.api_secret": {"CLOUDINARY_API_SECRET"},
	"admin.username":              {"ADMIN_USERNAME"},
	"admin.password":              {"ADMIN_PASSWORD"},
}

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	setDefaults(v)

	// Allow env vars to override config values.
	// e.g. VLOG_DATABASE_URI overrides database.uri
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		prefixed := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	// The config file is optional: env vars and defaults are enough to boot.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

// Validate rejects values that can never work. Missing credentials are not
// errors here: the features depending on them run disabled instead.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("database.driver must be mongo or memory, got %q", c.Database.Driver)
	}

	switch c.Media.Provider {
	case "cloudinary", "s3":
	default:
		return fmt.Errorf("media.provider must be cloudinary or s3, got %q", c.Media.Provider)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("media.max_upload_bytes must be positive")
	}

	c.Admin.Username = strings.TrimSpace(c.Admin.Username)
	if c.Admin.Username == "" {
		return fmt.Errorf("admin.username must not be empty")
	}

	return nil
}
