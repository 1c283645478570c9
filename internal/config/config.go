package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-companion/internal/log"
	"github.com/i474232898/weather-companion/internal/store"
	"github.com/i474232898/weather-companion/internal/units"
)

const envPrefix = "WEATHER"

var validate = validator.New()

type AppConfig struct {
	Weather     WeatherConfig     `mapstructure:"weather"`
	OpenWeather OpenWeatherConfig `mapstructure:"openweather"`
	OpenMeteo   OpenMeteoConfig   `mapstructure:"openmeteo"`
	Geocoder    GeocoderConfig    `mapstructure:"geocoder"`
	Google      GoogleConfig      `mapstructure:"google"`
	Defaults    DefaultsConfig    `mapstructure:"defaults"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Refresh     RefreshConfig     `mapstructure:"refresh"`
	API         APIConfig         `mapstructure:"api"`
	Log         LogConfig         `mapstructure:"log"`
}

// WeatherConfig selects the forecast backend.
type WeatherConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=openweather openmeteo"`
}

type OpenWeatherConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type OpenMeteoConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// GeocoderConfig selects the location search backend.
type GeocoderConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=geocodeapi google"`
	APIKey   string `mapstructure:"api_key" validate:"required_if=Provider geocodeapi"`
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
}

type GoogleConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultsConfig applies when no preferences have been saved.
type DefaultsConfig struct {
	Location string      `mapstructure:"location" validate:"required"`
	Units    units.Units `mapstructure:"units" validate:"oneof=metric imperial"`
}

type PreferencesConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// RefreshConfig controls the periodic re-fetch. A zero interval disables it.
type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

// APIConfig controls the local control API. An empty address disables it.
type APIConfig struct {
	Listen string `mapstructure:"listen" validate:"omitempty,hostname_port"`
}

type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	File  string `mapstructure:"file"`
}

// Load reads configuration from an optional .env file, an optional TOML file
// and the environment, in increasing order of precedence. Environment
// variables use the WEATHER_ prefix with "." replaced by "_", e.g.
// WEATHER_OPENWEATHER_API_KEY.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file found or error loading it: %v", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}

	// Without a user config directory the preferences path must be set
	// explicitly.
	prefsPath, err := store.DefaultPath()
	if err != nil {
		log.Debugf("no default preferences path: %v", err)
	}

	v := viper.New()

	// default values
	v.SetDefault("weather.provider", "openweather")
	v.SetDefault("openweather.api_key", "")
	v.SetDefault("openweather.base_url", "")
	v.SetDefault("openmeteo.base_url", "")
	v.SetDefault("geocoder.provider", "geocodeapi")
	v.SetDefault("geocoder.api_key", "")
	v.SetDefault("geocoder.base_url", "")
	v.SetDefault("google.api_key", "")
	v.SetDefault("defaults.location", "Ruinerwold")
	v.SetDefault("defaults.units", string(units.Metric))
	v.SetDefault("preferences.path", prefsPath)
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("refresh.interval", "15m")
	v.SetDefault("api.listen", "")
	v.SetDefault("log.debug", false)
	v.SetDefault("log.file", filepath.Join(os.TempDir(), "weather.log"))

	v.SetConfigType("toml")

	explicit := os.Getenv(envPrefix + "_CONFIG")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Join(configDir, "weather"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required credentials and value ranges.
func (c *AppConfig) Validate() error {
	if u, err := units.Parse(string(c.Defaults.Units)); err == nil {
		c.Defaults.Units = u
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Weather.Provider == "openweather" && c.OpenWeather.APIKey == "" {
		return errors.New("invalid config: openweather.api_key is required when weather.provider is openweather")
	}
	if c.Geocoder.Provider == "google" && c.Google.APIKey == "" {
		return errors.New("invalid config: google.api_key is required when geocoder.provider is google")
	}
	return nil
}
