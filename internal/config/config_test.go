package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-companion/internal/units"
)

// isolate points the config lookup at an empty directory so a developer's
// own configuration does not leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"WEATHER_CONFIG",
		"WEATHER_WEATHER_PROVIDER",
		"WEATHER_OPENWEATHER_API_KEY",
		"WEATHER_GEOCODER_PROVIDER",
		"WEATHER_GEOCODER_API_KEY",
		"WEATHER_GOOGLE_API_KEY",
		"WEATHER_DEFAULTS_UNITS",
		"WEATHER_API_LISTEN",
		"WEATHER_PREFERENCES_PATH",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("WEATHER_OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("WEATHER_GEOCODER_API_KEY", "geo-key")
	configDir, err := os.UserConfigDir()
	require.NoError(t, err)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "openweather", cfg.Weather.Provider)
	require.Equal(t, "ow-key", cfg.OpenWeather.APIKey)
	require.Equal(t, "geocodeapi", cfg.Geocoder.Provider)
	require.Equal(t, "Ruinerwold", cfg.Defaults.Location)
	require.Equal(t, units.Metric, cfg.Defaults.Units)
	require.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	require.Equal(t, 15*time.Minute, cfg.Refresh.Interval)
	require.Empty(t, cfg.API.Listen)
	require.Equal(t, filepath.Join(configDir, "weather", "preferences.json"), cfg.Preferences.Path)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[openweather]
api_key = "from-file"

[geocoder]
provider = "google"

[google]
api_key = "maps-key"

[defaults]
location = "Springfield"
units = "Imperial"

[refresh]
interval = "0s"

[api]
listen = "localhost:8088"
`), 0o600))
	t.Setenv("WEATHER_CONFIG", path)
	t.Setenv("WEATHER_HTTP_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "from-file", cfg.OpenWeather.APIKey)
	require.Equal(t, "google", cfg.Geocoder.Provider)
	require.Equal(t, "Springfield", cfg.Defaults.Location)
	require.Equal(t, units.Imperial, cfg.Defaults.Units)
	require.Zero(t, cfg.Refresh.Interval)
	require.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	require.Equal(t, "localhost:8088", cfg.API.Listen)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing weather key": {
			"WEATHER_GEOCODER_API_KEY": "geo-key",
		},
		"missing geocoder key": {
			"WEATHER_OPENWEATHER_API_KEY": "ow-key",
		},
		"google without key": {
			"WEATHER_OPENWEATHER_API_KEY": "ow-key",
			"WEATHER_GEOCODER_PROVIDER":   "google",
		},
		"unknown units": {
			"WEATHER_OPENWEATHER_API_KEY": "ow-key",
			"WEATHER_GEOCODER_API_KEY":    "geo-key",
			"WEATHER_DEFAULTS_UNITS":      "kelvin",
		},
		"unknown weather provider": {
			"WEATHER_WEATHER_PROVIDER":    "weatherapi",
			"WEATHER_OPENWEATHER_API_KEY": "ow-key",
			"WEATHER_GEOCODER_API_KEY":    "geo-key",
		},
		"bad listen address": {
			"WEATHER_OPENWEATHER_API_KEY": "ow-key",
			"WEATHER_GEOCODER_API_KEY":    "geo-key",
			"WEATHER_API_LISTEN":          "not an address",
		},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadOpenMeteoNeedsNoKey(t *testing.T) {
	isolate(t)
	t.Setenv("WEATHER_WEATHER_PROVIDER", "openmeteo")
	t.Setenv("WEATHER_GEOCODER_API_KEY", "geo-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "openmeteo", cfg.Weather.Provider)
	require.Empty(t, cfg.OpenWeather.APIKey)
}

func TestLoadWithoutConfigDirNeedsPreferencesPath(t *testing.T) {
	dir := isolate(t)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	t.Setenv("WEATHER_OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("WEATHER_GEOCODER_API_KEY", "geo-key")
	if _, err := os.UserConfigDir(); err == nil {
		t.Skip("user config directory resolves without HOME on this platform")
	}

	_, err := Load()
	require.Error(t, err)

	path := filepath.Join(dir, "prefs.json")
	t.Setenv("WEATHER_PREFERENCES_PATH", path)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, path, cfg.Preferences.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("WEATHER_CONFIG", filepath.Join(dir, "absent.toml"))
	t.Setenv("WEATHER_OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("WEATHER_GEOCODER_API_KEY", "geo-key")

	_, err := Load()
	require.Error(t, err)
}
